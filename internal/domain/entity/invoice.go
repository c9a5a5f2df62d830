package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento de factura.
const (
	DiscountTypeNone       = "NONE"
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFlat       = "FLAT"
)

// ValidDiscountType reporta si s es un tipo de descuento reconocido.
func ValidDiscountType(s string) bool {
	switch s {
	case DiscountTypeNone, DiscountTypePercentage, DiscountTypeFlat:
		return true
	}
	return false
}

// Invoice es el documento de cobro congelado de exactamente una venta
// COMPLETED. Todos los montos e identidad de facturación se copian al crearla;
// el documento sigue siendo reproducible aunque el catálogo cambie después.
type Invoice struct {
	ID             string
	Number         string // consecutivo único INV/AAAA/NNNN
	SaleID         string // uno a uno con la venta
	WarehouseID    string
	Subtotal       decimal.Decimal
	DiscountType   string
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	BillingName    string
	BillingPhone   string
	BillingTaxID   string
	CreatedAt      time.Time
}
