package entity

import "github.com/shopspring/decimal"

// SaleItem es una línea inmutable de una venta. UnitPrice y TaxRate quedan
// congelados del catálogo al momento del checkout; los reembolsos se derivan
// solo de estos valores, nunca del precio vivo.
type SaleItem struct {
	ID        string
	SaleID    string
	VariantID string
	Quantity  int64
	UnitPrice decimal.Decimal // congelado al checkout
	TaxRate   decimal.Decimal // fracción (0.19 = 19%), congelada al checkout
	LineTotal decimal.Decimal // Quantity * UnitPrice
}
