package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestValidateDiscount_NoneNoRequiereValor(t *testing.T) {
	err := domainbilling.ValidateDiscount(entity.DiscountTypeNone, nil, dec("200.00"))
	assert.NoError(t, err)
}

func TestValidateDiscount_TipoDesconocido(t *testing.T) {
	v := dec("10")
	err := domainbilling.ValidateDiscount("COUPON", &v, dec("200.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestValidateDiscount_ValorObligatorio(t *testing.T) {
	err := domainbilling.ValidateDiscount(entity.DiscountTypePercentage, nil, dec("200.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestValidateDiscount_PorcentajeMayorA100(t *testing.T) {
	v := dec("100.01")
	err := domainbilling.ValidateDiscount(entity.DiscountTypePercentage, &v, dec("200.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestValidateDiscount_PlanoMayorAlSubtotal(t *testing.T) {
	v := dec("200.01")
	err := domainbilling.ValidateDiscount(entity.DiscountTypeFlat, &v, dec("200.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestValidateDiscount_ValorNegativo(t *testing.T) {
	v := dec("-5")
	err := domainbilling.ValidateDiscount(entity.DiscountTypeFlat, &v, dec("200.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

// Escenario de referencia: subtotal 200.00 con PERCENTAGE 10 → descuento 20.00.
func TestDiscountAmount_Porcentaje(t *testing.T) {
	v := dec("10")
	got := domainbilling.DiscountAmount(entity.DiscountTypePercentage, &v, dec("200.00"))
	require.True(t, got.Equal(dec("20.00")), "esperaba 20.00, obtuve %s", got)
}

func TestDiscountAmount_PorcentajeRedondeaAMoneda(t *testing.T) {
	v := dec("7.5")
	// 33.33 * 7.5% = 2.49975 → 2.50
	got := domainbilling.DiscountAmount(entity.DiscountTypePercentage, &v, dec("33.33"))
	assert.True(t, got.Equal(dec("2.50")), "esperaba 2.50, obtuve %s", got)
}

func TestDiscountAmount_Plano(t *testing.T) {
	v := dec("15.00")
	got := domainbilling.DiscountAmount(entity.DiscountTypeFlat, &v, dec("200.00"))
	assert.True(t, got.Equal(dec("15.00")))
}

func TestDiscountAmount_None(t *testing.T) {
	got := domainbilling.DiscountAmount(entity.DiscountTypeNone, nil, dec("200.00"))
	assert.True(t, got.IsZero())
}
