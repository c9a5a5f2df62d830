package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/numbering"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// GenerateInvoiceUseCase convierte exactamente una venta COMPLETED en
// exactamente una factura inmutable, congelando montos, impuestos y textos de
// producto. Idempotente por venta: repetir la llamada devuelve la factura
// existente.
type GenerateInvoiceUseCase struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	invoiceRepo   repository.InvoiceRepository
	productRepo   repository.ProductRepository
	invoicePrefix string
}

// NewGenerateInvoiceUseCase construye el caso de uso. invoicePrefix es el
// prefijo del consecutivo (p. ej. "INV").
func NewGenerateInvoiceUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	invoicePrefix string,
) *GenerateInvoiceUseCase {
	return &GenerateInvoiceUseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		invoiceRepo:   invoiceRepo,
		productRepo:   productRepo,
		invoicePrefix: invoicePrefix,
	}
}

// InvoiceInput entrada para GenerateInvoiceForSale.
type InvoiceInput struct {
	SaleID        string
	BillingName   string
	BillingPhone  string
	BillingTaxID  string
	DiscountType  string
	DiscountValue *decimal.Decimal
}

// GenerateInvoiceForSale genera la factura de una venta. El descuento se
// valida antes de cualquier escritura; el consecutivo se asigna dentro de la
// misma transacción que la factura.
func (uc *GenerateInvoiceUseCase) GenerateInvoiceForSale(ctx context.Context, input InvoiceInput) (*entity.Invoice, error) {
	if input.SaleID == "" || input.BillingName == "" {
		return nil, domain.ErrInvalidInput
	}

	sale, err := uc.saleRepo.GetByID(input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrSaleNotCompleted
	}

	// Idempotencia por venta: generar dos veces devuelve la misma factura.
	if existing, err := uc.invoiceRepo.GetBySaleID(sale.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = entity.DiscountTypeNone
	}
	if err := domainbilling.ValidateDiscount(discountType, input.DiscountValue, sale.Subtotal); err != nil {
		return nil, err
	}
	discountAmount := domainbilling.DiscountAmount(discountType, input.DiscountValue, sale.Subtotal)
	grandTotal := sale.Subtotal.Sub(discountAmount).Add(sale.TaxTotal)

	saleItems, err := uc.saleRepo.ListItems(sale.ID)
	if err != nil {
		return nil, err
	}
	if len(saleItems) == 0 {
		return nil, domain.ErrNotFound
	}

	// Las líneas copian nombre/SKU/descripción como texto plano: la factura
	// debe seguir siendo reproducible aunque el producto se renombre o borre.
	items := make([]*entity.InvoiceItem, 0, len(saleItems))
	for _, si := range saleItems {
		name, sku, desc, err := uc.variantText(si.VariantID)
		if err != nil {
			return nil, err
		}
		taxAmount := domainbilling.Round2(si.LineTotal.Mul(si.TaxRate))
		items = append(items, &entity.InvoiceItem{
			ID:            uuid.New().String(),
			ProductName:   name,
			SKU:           sku,
			VariantDesc:   desc,
			Quantity:      si.Quantity,
			UnitPrice:     si.UnitPrice,
			TaxableAmount: si.LineTotal,
			TaxRate:       si.TaxRate,
			TaxAmount:     taxAmount,
			LineTotal:     si.LineTotal.Add(taxAmount),
		})
	}

	now := time.Now()
	var invoice *entity.Invoice
	discountValue := decimal.Zero
	if input.DiscountValue != nil {
		discountValue = *input.DiscountValue
	}

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
	) error {
		n, err := seqRepo.Next(uc.invoicePrefix, now.Year())
		if err != nil {
			return err
		}
		invoice = &entity.Invoice{
			ID:             uuid.New().String(),
			Number:         numbering.Format(uc.invoicePrefix, now.Year(), n),
			SaleID:         sale.ID,
			WarehouseID:    sale.WarehouseID,
			Subtotal:       sale.Subtotal,
			DiscountType:   discountType,
			DiscountValue:  discountValue,
			DiscountAmount: discountAmount,
			TaxTotal:       sale.TaxTotal,
			GrandTotal:     grandTotal,
			BillingName:    input.BillingName,
			BillingPhone:   input.BillingPhone,
			BillingTaxID:   input.BillingTaxID,
			CreatedAt:      now,
		}
		if err := invoiceRepo.Create(invoice); err != nil {
			return err
		}
		for _, item := range items {
			item.InvoiceID = invoice.ID
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Dos generaciones concurrentes para la misma venta: UNIQUE(sale_id)
		// atrapa al perdedor, que devuelve la factura del ganador.
		if errors.Is(err, domain.ErrDuplicate) {
			if existing, lookupErr := uc.invoiceRepo.GetBySaleID(sale.ID); lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return invoice, nil
}

// GetInvoice devuelve una factura por ID.
func (uc *GenerateInvoiceUseCase) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// GetInvoiceItems devuelve las líneas de una factura.
func (uc *GenerateInvoiceUseCase) GetInvoiceItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	return uc.invoiceRepo.ListItems(invoiceID)
}

// variantText lee del catálogo los textos a congelar en la línea de factura.
func (uc *GenerateInvoiceUseCase) variantText(variantID string) (name, sku, desc string, err error) {
	variant, err := uc.productRepo.GetVariantByID(variantID)
	if err != nil {
		return "", "", "", err
	}
	if variant == nil {
		return "", "", "", domain.ErrNotFound
	}
	product, err := uc.productRepo.GetProductByID(variant.ProductID)
	if err != nil {
		return "", "", "", err
	}
	if product == nil {
		return "", "", "", domain.ErrNotFound
	}
	return product.Name, variant.SKU, variant.Description, nil
}
