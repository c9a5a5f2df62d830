package entity

import "github.com/shopspring/decimal"

// InvoiceItem es una línea inmutable de factura. Nombre, SKU y descripción de
// variante se copian como texto plano (no referencias al catálogo) para que la
// factura sobreviva renombres o borrados del producto.
type InvoiceItem struct {
	ID            string
	InvoiceID     string
	ProductName   string
	SKU           string
	VariantDesc   string
	Quantity      int64
	UnitPrice     decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	LineTotal     decimal.Decimal
}
