package billing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

const (
	variantID   = "11111111-1111-1111-1111-111111111111"
	productID   = "33333333-3333-3333-3333-333333333333"
	warehouseID = "44444444-4444-4444-4444-444444444444"
)

// fixture: catálogo sin impuesto (tasa 0) para que los montos del descuento
// queden limpios, stock inicial y una venta completada de 4×50.00 = 200.00.
func newFixture(t *testing.T) (*memory.Store, *billing.GenerateInvoiceUseCase, *entity.Sale) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	store.SeedProduct(entity.Product{ID: productID, Name: "Camiseta", Active: true, CreatedAt: now})
	store.SeedVariant(entity.ProductVariant{
		ID: variantID, ProductID: productID, SKU: "CAM-M", Description: "Talla M",
		Price: decimal.RequireFromString("50.00"), TaxRate: decimal.Zero,
		Active: true, CreatedAt: now,
	})
	store.SeedWarehouse(entity.Warehouse{ID: warehouseID, Name: "Principal", Active: true, CreatedAt: now})

	stockSvc := stock.NewService(store, store.Products(), store.Warehouses(), store.Ledger(), store.Snapshots())
	ctx := context.Background()
	_, err := stockSvc.RecordPurchase(ctx, variantID, warehouseID, 100, "po-1", "", "seed")
	require.NoError(t, err)

	salesEngine := sales.NewEngine(store, store.Products(), store.Warehouses(), store.Sales(), "SAL")
	sale, err := salesEngine.ProcessSale(ctx, sales.SaleInput{
		IdempotencyKey: "key-1",
		WarehouseID:    warehouseID,
		PaymentMethod:  entity.PaymentMethodCard,
		Actor:          "cajero-1",
		Lines:          []sales.SaleLine{{Identifier: "CAM-M", Quantity: 4}},
	})
	require.NoError(t, err)

	uc := billing.NewGenerateInvoiceUseCase(store, store.Sales(), store.Invoices(), store.Products(), "INV")
	return store, uc, sale
}

func TestGenerateInvoice_DescuentoPorcentual(t *testing.T) {
	_, uc, sale := newFixture(t)
	ctx := context.Background()

	pct := decimal.NewFromInt(10)
	invoice, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{
		SaleID:        sale.ID,
		BillingName:   "Cliente Uno",
		DiscountType:  entity.DiscountTypePercentage,
		DiscountValue: &pct,
	})
	require.NoError(t, err)

	// 200.00 al 10% → 20.00 de descuento, 180.00 a pagar.
	assert.True(t, invoice.Subtotal.Equal(decimal.RequireFromString("200.00")), "subtotal %s", invoice.Subtotal)
	assert.True(t, invoice.DiscountAmount.Equal(decimal.RequireFromString("20.00")), "descuento %s", invoice.DiscountAmount)
	assert.True(t, invoice.GrandTotal.Equal(decimal.RequireFromString("180.00")), "total %s", invoice.GrandTotal)
	assert.Equal(t, fmt.Sprintf("INV/%d/0001", time.Now().Year()), invoice.Number)
	assert.Equal(t, sale.ID, invoice.SaleID)
}

func TestGenerateInvoice_LineasCongeladas(t *testing.T) {
	store, uc, sale := newFixture(t)
	ctx := context.Background()

	invoice, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{
		SaleID:      sale.ID,
		BillingName: "Cliente Uno",
	})
	require.NoError(t, err)

	items, err := uc.GetInvoiceItems(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Camiseta", items[0].ProductName)
	assert.Equal(t, "CAM-M", items[0].SKU)
	assert.Equal(t, "Talla M", items[0].VariantDesc)
	assert.Equal(t, int64(4), items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("50.00")))

	// Renombrar el producto después no altera la factura: los textos son copias.
	store.SeedProduct(entity.Product{ID: productID, Name: "Otro nombre", Active: true})
	items, err = uc.GetInvoiceItems(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camiseta", items[0].ProductName)
}

func TestGenerateInvoice_IdempotentePorVenta(t *testing.T) {
	_, uc, sale := newFixture(t)
	ctx := context.Background()

	first, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{SaleID: sale.ID, BillingName: "Cliente Uno"})
	require.NoError(t, err)

	second, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{SaleID: sale.ID, BillingName: "Cliente Uno"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repetir devuelve la misma factura")
	assert.Equal(t, first.Number, second.Number)
}

func TestGenerateInvoice_VentaNoCompletada(t *testing.T) {
	store, uc, _ := newFixture(t)
	ctx := context.Background()

	failed := &entity.Sale{
		ID: "aaaaaaaa-0000-0000-0000-000000000000", Number: "SAL/2026/0099",
		IdempotencyKey: "key-failed", WarehouseID: warehouseID,
		Status: entity.SaleStatusFailed, PaymentMethod: entity.PaymentMethodCash,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Sales().Create(failed))

	_, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{SaleID: failed.ID, BillingName: "Cliente"})
	require.ErrorIs(t, err, domain.ErrSaleNotCompleted)
}

func TestGenerateInvoice_DescuentosInvalidos(t *testing.T) {
	_, uc, sale := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		dtype string
		value string
	}{
		{"porcentaje mayor a 100", entity.DiscountTypePercentage, "101"},
		{"plano mayor al subtotal", entity.DiscountTypeFlat, "200.01"},
		{"valor negativo", entity.DiscountTypeFlat, "-5"},
		{"tipo desconocido", "COUPON", "10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := decimal.RequireFromString(tc.value)
			_, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{
				SaleID:        sale.ID,
				BillingName:   "Cliente",
				DiscountType:  tc.dtype,
				DiscountValue: &v,
			})
			require.ErrorIs(t, err, domain.ErrInvalidDiscount)
		})
	}

	// Tipo sin valor también es inválido.
	_, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{
		SaleID: sale.ID, BillingName: "Cliente", DiscountType: entity.DiscountTypePercentage,
	})
	require.ErrorIs(t, err, domain.ErrInvalidDiscount)

	// Un descuento rechazado no consume consecutivo: la siguiente factura es la 0001.
	invoice, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{SaleID: sale.ID, BillingName: "Cliente"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV/%d/0001", time.Now().Year()), invoice.Number)
}

func TestGenerateInvoice_Validaciones(t *testing.T) {
	_, uc, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{BillingName: "Cliente"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{SaleID: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GenerateInvoiceForSale(ctx, billing.InvoiceInput{SaleID: "no-existe", BillingName: "Cliente"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
