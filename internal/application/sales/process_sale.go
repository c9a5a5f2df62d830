package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/numbering"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Engine es el motor de transacción de venta: valida un checkout multi-línea,
// congela precios del catálogo, crea la venta inmutable y descuenta stock vía
// el servicio de mutación, todo en una sola transacción. Los reintentos con la
// misma clave de idempotencia devuelven la misma venta sin doble descuento.
type Engine struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	saleRepo      repository.SaleRepository
	salePrefix    string
}

// NewEngine construye el motor. salePrefix es el prefijo del consecutivo de
// ventas (p. ej. "SAL").
func NewEngine(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	saleRepo repository.SaleRepository,
	salePrefix string,
) *Engine {
	return &Engine{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		saleRepo:      saleRepo,
		salePrefix:    salePrefix,
	}
}

// SaleLine una línea del checkout. Identifier es SKU o ID de variante.
type SaleLine struct {
	Identifier string
	Quantity   int64
}

// SaleInput entrada para ProcessSale.
type SaleInput struct {
	IdempotencyKey string
	WarehouseID    string
	PaymentMethod  string
	Actor          string
	Lines          []SaleLine
}

// línea ya resuelta contra el catálogo, con precio e impuesto congelados.
type resolvedLine struct {
	variant  *entity.ProductVariant
	quantity int64
}

// ProcessSale ejecuta el checkout. Idempotente: si ya existe una venta con la
// misma clave la devuelve sin tocar nada. Todas las líneas o ninguna: un
// fallo de validación o de stock revierte venta, líneas y asientos por igual.
func (e *Engine) ProcessSale(ctx context.Context, input SaleInput) (*entity.Sale, error) {
	if input.IdempotencyKey == "" {
		return nil, domain.ErrInvalidInput
	}

	// Corto circuito de idempotencia: un reintento tras fallo de red debe
	// encontrar la venta ya creada.
	if existing, err := e.saleRepo.GetByIdempotencyKey(input.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	if len(input.Lines) == 0 || !entity.ValidPaymentMethod(input.PaymentMethod) {
		return nil, domain.ErrInvalidInput
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

	// Resolver identificadores contra el catálogo (solo lectura, fuera de la
	// tx). El precio y la tasa de impuesto quedan congelados aquí.
	resolved := make([]resolvedLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Identifier == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		variant, err := e.resolveVariant(line.Identifier)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedLine{variant: variant, quantity: line.Quantity})
	}

	// Adquirir los bloqueos de snapshot siempre en orden estable (ID de
	// variante ascendente) elimina el riesgo de deadlock entre checkouts
	// concurrentes que comparten variantes.
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].variant.ID < resolved[j].variant.ID
	})

	now := time.Now()
	saleID := uuid.New().String()
	var sale *entity.Sale

	err = e.txRunner.RunSale(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		snapRepo repository.StockSnapshotRepository,
		saleRepo repository.SaleRepository,
		seqRepo repository.SequenceRepository,
	) error {
		subtotal := decimal.Zero
		taxTotal := decimal.Zero
		items := make([]*entity.SaleItem, 0, len(resolved))
		for _, rl := range resolved {
			lineTotal := rl.variant.Price.Mul(decimal.NewFromInt(rl.quantity))
			subtotal = subtotal.Add(lineTotal)
			taxTotal = taxTotal.Add(domainbilling.Round2(lineTotal.Mul(rl.variant.TaxRate)))
			items = append(items, &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				VariantID: rl.variant.ID,
				Quantity:  rl.quantity,
				UnitPrice: rl.variant.Price,
				TaxRate:   rl.variant.TaxRate,
				LineTotal: lineTotal,
			})
		}

		n, err := seqRepo.Next(e.salePrefix, now.Year())
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			ID:             saleID,
			Number:         numbering.Format(e.salePrefix, now.Year(), n),
			IdempotencyKey: input.IdempotencyKey,
			WarehouseID:    input.WarehouseID,
			Status:         entity.SaleStatusCompleted,
			Subtotal:       subtotal,
			TaxTotal:       taxTotal,
			Total:          subtotal.Add(taxTotal),
			ItemCount:      len(items),
			PaymentMethod:  input.PaymentMethod,
			Actor:          input.Actor,
			CreatedAt:      now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
		}

		// Un evento SALE negativo por línea, referenciado a la venta. El
		// chequeo de suficiencia ocurre bajo el bloqueo de fila: si una línea
		// no alcanza, toda la venta se revierte.
		for _, item := range items {
			if _, err := stock.ApplyEvent(ledgerRepo, snapRepo, stock.EventInput{
				VariantID:   item.VariantID,
				WarehouseID: input.WarehouseID,
				EventType:   entity.EventTypeSale,
				Quantity:    -item.Quantity,
				RefType:     entity.RefTypeSale,
				RefID:       saleID,
				Actor:       input.Actor,
			}, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Dos reintentos concurrentes con la misma clave: el constraint único
		// atrapa al perdedor de la carrera, que relee y devuelve la venta del
		// ganador. El chequeo de existencia solo no basta bajo concurrencia.
		if errors.Is(err, domain.ErrDuplicate) {
			if existing, lookupErr := e.saleRepo.GetByIdempotencyKey(input.IdempotencyKey); lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return sale, nil
}

// GetSale devuelve una venta por ID.
func (e *Engine) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := e.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// GetSaleItems devuelve las líneas de una venta.
func (e *Engine) GetSaleItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	return e.saleRepo.ListItems(saleID)
}

// resolveVariant acepta SKU o ID de variante y exige variante y producto
// activos.
func (e *Engine) resolveVariant(identifier string) (*entity.ProductVariant, error) {
	variant, err := e.productRepo.GetVariantBySKU(identifier)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		variant, err = e.productRepo.GetVariantByID(identifier)
		if err != nil {
			return nil, err
		}
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if !variant.Active {
		return nil, domain.ErrInactiveVariant
	}
	product, err := e.productRepo.GetProductByID(variant.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrInactiveVariant
	}
	return variant, nil
}
