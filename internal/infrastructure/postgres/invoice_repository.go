package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas y sus líneas congeladas.
type InvoiceRepo struct {
	q Querier
}

func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = "id, number, sale_id, warehouse_id, subtotal, discount_type, discount_value, discount_amount, tax_total, grand_total, billing_name, billing_phone, billing_tax_id, created_at"

// Create inserta la factura. El UNIQUE sobre sale_id garantiza una factura
// por venta: la colisión se traduce a domain.ErrDuplicate.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, number, sale_id, warehouse_id, subtotal, discount_type, discount_value, discount_amount, tax_total, grand_total, billing_name, billing_phone, billing_tax_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, inv.SaleID, inv.WarehouseID, inv.Subtotal,
		inv.DiscountType, inv.DiscountValue, inv.DiscountAmount,
		inv.TaxTotal, inv.GrandTotal,
		nullIfEmpty(inv.BillingName), nullIfEmpty(inv.BillingPhone), nullIfEmpty(inv.BillingTaxID),
		inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create invoice: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_name, sku, variant_desc, quantity, unit_price, taxable_amount, tax_rate, tax_amount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductName, item.SKU, nullIfEmpty(item.VariantDesc),
		item.Quantity, item.UnitPrice, item.TaxableAmount, item.TaxRate, item.TaxAmount, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("create invoice item: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetBySaleID devuelve la factura de la venta, (nil, nil) si aún no se emite.
func (r *InvoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE sale_id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by sale: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) ListItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_name, sku, variant_desc, quantity, unit_price, taxable_amount, tax_rate, tax_amount, line_total
		FROM invoice_items WHERE invoice_id = $1
		ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		var variantDesc *string
		err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductName, &it.SKU, &variantDesc,
			&it.Quantity, &it.UnitPrice, &it.TaxableAmount, &it.TaxRate, &it.TaxAmount, &it.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		if variantDesc != nil {
			it.VariantDesc = *variantDesc
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var billingName, billingPhone, billingTaxID *string
	err := row.Scan(&inv.ID, &inv.Number, &inv.SaleID, &inv.WarehouseID, &inv.Subtotal,
		&inv.DiscountType, &inv.DiscountValue, &inv.DiscountAmount,
		&inv.TaxTotal, &inv.GrandTotal,
		&billingName, &billingPhone, &billingTaxID, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if billingName != nil {
		inv.BillingName = *billingName
	}
	if billingPhone != nil {
		inv.BillingPhone = *billingPhone
	}
	if billingTaxID != nil {
		inv.BillingTaxID = *billingTaxID
	}
	return &inv, nil
}
