package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. COMPLETED, FAILED y CANCELLED son terminales;
// una venta nunca se edita después de creada (las correcciones van por
// devoluciones).
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusFailed    = "FAILED"
	SaleStatusCancelled = "CANCELLED"
)

// Métodos de pago reconocidos.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCredit   = "CREDIT"
)

// ValidPaymentMethod reporta si s es un método de pago reconocido.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// Sale es un checkout inmutable. IdempotencyKey es único: la misma clave
// devuelve siempre la misma venta, sin dobles descuentos de stock.
type Sale struct {
	ID             string
	Number         string // consecutivo legible SAL/AAAA/NNNN
	IdempotencyKey string
	WarehouseID    string
	Status         string
	Subtotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	ItemCount      int
	PaymentMethod  string
	Actor          string
	CreatedAt      time.Time
}
