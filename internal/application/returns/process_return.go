package returns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Engine es el motor de devoluciones: revierte parte o todo el efecto de una
// venta sin tocar los registros originales. Crea Return/ReturnItem, calcula el
// reembolso desde los valores congelados de la venta y reingresa stock con
// eventos RETURN. Devoluciones parciales y sucesivas están soportadas mientras
// el acumulado por línea no exceda la cantidad original.
type Engine struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	returnRepo    repository.ReturnRepository
	warehouseRepo repository.WarehouseRepository
}

// NewEngine construye el motor.
func NewEngine(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
	warehouseRepo repository.WarehouseRepository,
) *Engine {
	return &Engine{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		returnRepo:    returnRepo,
		warehouseRepo: warehouseRepo,
	}
}

// ReturnLine una línea a devolver, referida a la línea original de la venta.
type ReturnLine struct {
	SaleItemID string
	Quantity   int64
}

// ReturnInput entrada para ProcessReturn.
type ReturnInput struct {
	SaleID      string
	WarehouseID string
	Reason      string
	Actor       string
	Items       []ReturnLine
}

// ProcessReturn ejecuta la devolución. Atómica: todas las líneas pedidas o
// ninguna. El reembolso se deriva únicamente del precio unitario y la tasa de
// impuesto congelados en la venta, nunca del catálogo vivo; líneas sin tasa
// (ventas previas al impuesto) reembolsan impuesto cero.
func (e *Engine) ProcessReturn(ctx context.Context, input ReturnInput) (*entity.Return, error) {
	if input.SaleID == "" || input.WarehouseID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Items {
		if line.SaleItemID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	sale, err := e.saleRepo.GetByID(input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrSaleNotCompleted
	}
	wh, err := e.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if !wh.Active {
		return nil, domain.ErrInactiveWarehouse
	}

	now := time.Now()
	returnID := uuid.New().String()
	var ret *entity.Return

	err = e.txRunner.RunReturn(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		snapRepo repository.StockSnapshotRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error {
		// Bloquear las líneas originales estabiliza el acumulado de
		// "ya devuelto" frente a devoluciones concurrentes de la misma venta.
		saleItems, err := saleRepo.ListItemsForUpdate(input.SaleID)
		if err != nil {
			return err
		}
		itemsByID := make(map[string]*entity.SaleItem, len(saleItems))
		for _, si := range saleItems {
			itemsByID[si.ID] = si
		}

		refundSubtotal := decimal.Zero
		refundTax := decimal.Zero
		retItems := make([]*entity.ReturnItem, 0, len(input.Items))
		type stockEntry struct {
			variantID string
			quantity  int64
		}
		entries := make([]stockEntry, 0, len(input.Items))
		// Acumulado pedido en esta misma solicitud, por línea de venta:
		// líneas repetidas cuentan contra el mismo tope.
		requested := make(map[string]int64, len(input.Items))

		for _, line := range input.Items {
			si, ok := itemsByID[line.SaleItemID]
			if !ok || si.SaleID != input.SaleID {
				return domain.ErrNotFound
			}
			already, err := returnRepo.SumReturnedBySaleItem(si.ID)
			if err != nil {
				return err
			}
			requested[si.ID] += line.Quantity
			if already+requested[si.ID] > si.Quantity {
				return domain.ErrInvalidReturnQty
			}

			// Reembolso desde el precio congelado de la línea.
			qty := decimal.NewFromInt(line.Quantity)
			lineRefund := domainbilling.Round2(si.UnitPrice.Mul(qty))
			lineTax := domainbilling.Round2(lineRefund.Mul(si.TaxRate))
			refundSubtotal = refundSubtotal.Add(lineRefund)
			refundTax = refundTax.Add(lineTax)

			retItems = append(retItems, &entity.ReturnItem{
				ID:           uuid.New().String(),
				ReturnID:     returnID,
				SaleItemID:   si.ID,
				Quantity:     line.Quantity,
				RefundAmount: lineRefund,
			})
			entries = append(entries, stockEntry{variantID: si.VariantID, quantity: line.Quantity})
		}

		ret = &entity.Return{
			ID:             returnID,
			SaleID:         input.SaleID,
			WarehouseID:    input.WarehouseID,
			Reason:         input.Reason,
			RefundSubtotal: refundSubtotal,
			RefundTax:      refundTax,
			RefundTotal:    refundSubtotal.Add(refundTax),
			Status:         entity.ReturnStatusCompleted,
			Actor:          input.Actor,
			CreatedAt:      now,
		}
		if err := returnRepo.Create(ret); err != nil {
			return err
		}
		for _, item := range retItems {
			if err := returnRepo.CreateItem(item); err != nil {
				return err
			}
		}

		// Un evento RETURN positivo por línea: el stock vuelve a subir, la
		// venta y la factura originales no se tocan.
		for _, en := range entries {
			if _, err := stock.ApplyEvent(ledgerRepo, snapRepo, stock.EventInput{
				VariantID:   en.variantID,
				WarehouseID: input.WarehouseID,
				EventType:   entity.EventTypeReturn,
				Quantity:    en.quantity,
				RefType:     entity.RefTypeReturn,
				RefID:       returnID,
				Actor:       input.Actor,
			}, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// GetReturn devuelve una devolución por ID.
func (e *Engine) GetReturn(ctx context.Context, id string) (*entity.Return, error) {
	ret, err := e.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	return ret, nil
}

// GetReturnItems devuelve las líneas de una devolución.
func (e *Engine) GetReturnItems(ctx context.Context, returnID string) ([]*entity.ReturnItem, error) {
	return e.returnRepo.ListItems(returnID)
}
