package stock

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Service es el servicio de mutación de stock: el único camino legítimo para
// cambiar existencias. Registra un asiento en el ledger y actualiza el
// snapshot de (variante, bodega) en una sola transacción, con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback.
type Service struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	ledgerRepo    repository.StockLedgerRepository
	snapRepo      repository.StockSnapshotRepository
}

// NewService construye el servicio. Los repos sueltos (fuera del TxRunner)
// atienden los caminos de solo lectura.
func NewService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	ledgerRepo repository.StockLedgerRepository,
	snapRepo repository.StockSnapshotRepository,
) *Service {
	return &Service{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		ledgerRepo:    ledgerRepo,
		snapRepo:      snapRepo,
	}
}

// EventInput entrada para RecordStockEvent. Quantity lleva signo: positivo
// entra, negativo sale.
type EventInput struct {
	VariantID     string
	WarehouseID   string
	EventType     string
	Quantity      int64
	RefType       string
	RefID         string
	Note          string
	Actor         string
	AllowNegative bool
}

// RecordStockEvent valida y registra atómicamente un evento de stock:
// bloquea el snapshot (creándolo en 0 si no existe), verifica la regla de
// no-negatividad, inserta el asiento y aplica el delta. Todo o nada.
func (s *Service) RecordStockEvent(ctx context.Context, input EventInput) (*entity.StockLedgerEntry, error) {
	if !entity.ValidEventType(input.EventType) || input.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.VariantID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Datos maestros: la variante y la bodega deben existir y estar activas
	// (validación temprana, antes de tocar stock).
	variant, err := s.productRepo.GetVariantByID(input.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if !variant.Active {
		return nil, domain.ErrInactiveVariant
	}
	wh, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if !wh.Active {
		return nil, domain.ErrInactiveWarehouse
	}

	var entry *entity.StockLedgerEntry
	err = s.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		snapRepo repository.StockSnapshotRepository,
	) error {
		e, err := ApplyEvent(ledgerRepo, snapRepo, input, time.Now())
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyEvent ejecuta el asiento usando repositorios ya atados a la
// transacción del caller. Es el punto de entrada que reutilizan los motores
// de venta y devolución para que su checkout/devolución y los eventos de
// stock compartan una sola unidad atómica.
func ApplyEvent(
	ledgerRepo repository.StockLedgerRepository,
	snapRepo repository.StockSnapshotRepository,
	input EventInput,
	now time.Time,
) (*entity.StockLedgerEntry, error) {
	switch input.EventType {
	case entity.EventTypePurchase, entity.EventTypeSale, entity.EventTypeReturn, entity.EventTypeAdjustment:
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Bloquea la fila del snapshot (la crea en 0 si no existe). Esto
	// serializa todas las mutaciones concurrentes sobre la misma clave.
	snap, err := snapRepo.LockForUpdate(input.VariantID, input.WarehouseID)
	if err != nil {
		return nil, err
	}

	if input.Quantity < 0 && !input.AllowNegative && snap.Quantity+input.Quantity < 0 {
		return nil, domain.ErrInsufficientStock
	}

	entry := &entity.StockLedgerEntry{
		VariantID:   input.VariantID,
		WarehouseID: input.WarehouseID,
		EventType:   input.EventType,
		Quantity:    input.Quantity,
		RefType:     input.RefType,
		RefID:       input.RefID,
		Note:        input.Note,
		Actor:       input.Actor,
		CreatedAt:   now,
	}
	if err := ledgerRepo.Append(entry); err != nil {
		return nil, err
	}

	snap.Quantity += input.Quantity
	snap.UpdatedAt = now
	if err := snapRepo.Upsert(snap); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordPurchase registra una entrada por compra (cantidad positiva, PURCHASE).
func (s *Service) RecordPurchase(ctx context.Context, variantID, warehouseID string, quantity int64, refID, note, actor string) (*entity.StockLedgerEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.RecordStockEvent(ctx, EventInput{
		VariantID:   variantID,
		WarehouseID: warehouseID,
		EventType:   entity.EventTypePurchase,
		Quantity:    quantity,
		RefType:     entity.RefTypePurchase,
		RefID:       refID,
		Note:        note,
		Actor:       actor,
	})
}

// RecordSale registra una salida por venta. El caller pasa la deducción
// prevista en positivo; se almacena como SALE negativo.
func (s *Service) RecordSale(ctx context.Context, variantID, warehouseID string, quantity int64, saleID, actor string) (*entity.StockLedgerEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.RecordStockEvent(ctx, EventInput{
		VariantID:   variantID,
		WarehouseID: warehouseID,
		EventType:   entity.EventTypeSale,
		Quantity:    -quantity,
		RefType:     entity.RefTypeSale,
		RefID:       saleID,
		Actor:       actor,
	})
}

// RecordReturn registra un reingreso por devolución (cantidad positiva, RETURN).
func (s *Service) RecordReturn(ctx context.Context, variantID, warehouseID string, quantity int64, returnID, actor string) (*entity.StockLedgerEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.RecordStockEvent(ctx, EventInput{
		VariantID:   variantID,
		WarehouseID: warehouseID,
		EventType:   entity.EventTypeReturn,
		Quantity:    quantity,
		RefType:     entity.RefTypeReturn,
		RefID:       returnID,
		Actor:       actor,
	})
}

// RecordAdjustment registra un ajuste manual de cualquier signo. allowNegative
// permite dejar el snapshot por debajo de cero (conteos físicos, mermas).
func (s *Service) RecordAdjustment(ctx context.Context, variantID, warehouseID string, quantity int64, note, actor string, allowNegative bool) (*entity.StockLedgerEntry, error) {
	return s.RecordStockEvent(ctx, EventInput{
		VariantID:     variantID,
		WarehouseID:   warehouseID,
		EventType:     entity.EventTypeAdjustment,
		Quantity:      quantity,
		RefType:       entity.RefTypeAdjustment,
		Note:          note,
		Actor:         actor,
		AllowNegative: allowNegative,
	})
}
