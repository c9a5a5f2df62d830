package billing

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ValidateDiscount aplica las reglas de descuento (servicio de dominio):
// un tipo distinto de NONE exige valor; el valor no puede ser negativo;
// PERCENTAGE no supera 100; FLAT no supera el subtotal de la venta.
func ValidateDiscount(discountType string, value *decimal.Decimal, subtotal decimal.Decimal) error {
	if !entity.ValidDiscountType(discountType) {
		return domain.ErrInvalidDiscount
	}
	if discountType == entity.DiscountTypeNone {
		return nil
	}
	if value == nil || value.IsNegative() {
		return domain.ErrInvalidDiscount
	}
	switch discountType {
	case entity.DiscountTypePercentage:
		if value.GreaterThan(hundred) {
			return domain.ErrInvalidDiscount
		}
	case entity.DiscountTypeFlat:
		if value.GreaterThan(subtotal) {
			return domain.ErrInvalidDiscount
		}
	}
	return nil
}

// DiscountAmount calcula el monto de descuento: porcentaje del subtotal
// redondeado a precisión de moneda, o el valor plano tal cual.
func DiscountAmount(discountType string, value *decimal.Decimal, subtotal decimal.Decimal) decimal.Decimal {
	if discountType == entity.DiscountTypeNone || value == nil {
		return decimal.Zero
	}
	if discountType == entity.DiscountTypePercentage {
		return Round2(subtotal.Mul(*value).Div(hundred))
	}
	return *value
}

// Round2 redondea a 2 decimales (precisión de moneda, half-up).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
