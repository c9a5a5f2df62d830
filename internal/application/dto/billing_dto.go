package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateInvoiceRequest body para POST /api/sales/:id/invoice.
// DiscountType ∈ {NONE, PERCENTAGE, FLAT}; DiscountValue obligatorio salvo NONE.
type GenerateInvoiceRequest struct {
	BillingName   string           `json:"billing_name"`
	BillingPhone  string           `json:"billing_phone,omitempty"`
	BillingTaxID  string           `json:"billing_tax_id,omitempty"`
	DiscountType  string           `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
}

// InvoiceResponse una factura en respuestas.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	Number         string                `json:"number"`
	SaleID         string                `json:"sale_id"`
	WarehouseID    string                `json:"warehouse_id"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountType   string                `json:"discount_type"`
	DiscountValue  decimal.Decimal       `json:"discount_value"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxTotal       decimal.Decimal       `json:"tax_total"`
	GrandTotal     decimal.Decimal       `json:"grand_total"`
	BillingName    string                `json:"billing_name"`
	BillingPhone   string                `json:"billing_phone,omitempty"`
	BillingTaxID   string                `json:"billing_tax_id,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse una línea de factura en respuestas.
type InvoiceItemResponse struct {
	ID            string          `json:"id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	VariantDesc   string          `json:"variant_desc,omitempty"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	LineTotal     decimal.Decimal `json:"line_total"`
}
