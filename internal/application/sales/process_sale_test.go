package sales_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

const (
	variantCamiseta = "11111111-1111-1111-1111-111111111111"
	variantPantalon = "22222222-2222-2222-2222-222222222222"
	productRopa     = "33333333-3333-3333-3333-333333333333"
	warehousePpal   = "44444444-4444-4444-4444-444444444444"
)

// fixture con catálogo sembrado y stock inicial vía compras.
func newFixture(t *testing.T) (*memory.Store, *sales.Engine) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	store.SeedProduct(entity.Product{ID: productRopa, Name: "Ropa básica", Active: true, CreatedAt: now})
	store.SeedVariant(entity.ProductVariant{
		ID: variantCamiseta, ProductID: productRopa, SKU: "CAM-M", Description: "Talla M",
		Price: decimal.RequireFromString("50.00"), TaxRate: decimal.RequireFromString("0.19"),
		Active: true, CreatedAt: now,
	})
	store.SeedVariant(entity.ProductVariant{
		ID: variantPantalon, ProductID: productRopa, SKU: "PAN-32", Description: "Talla 32",
		Price: decimal.RequireFromString("80.00"), TaxRate: decimal.Zero,
		Active: true, CreatedAt: now,
	})
	store.SeedWarehouse(entity.Warehouse{ID: warehousePpal, Name: "Principal", Active: true, CreatedAt: now})

	stockSvc := stock.NewService(store, store.Products(), store.Warehouses(), store.Ledger(), store.Snapshots())
	ctx := context.Background()
	_, err := stockSvc.RecordPurchase(ctx, variantCamiseta, warehousePpal, 100, "po-1", "", "seed")
	require.NoError(t, err)
	_, err = stockSvc.RecordPurchase(ctx, variantPantalon, warehousePpal, 10, "po-2", "", "seed")
	require.NoError(t, err)

	engine := sales.NewEngine(store, store.Products(), store.Warehouses(), store.Sales(), "SAL")
	return store, engine
}

func saleInput(key string, lines ...sales.SaleLine) sales.SaleInput {
	return sales.SaleInput{
		IdempotencyKey: key,
		WarehouseID:    warehousePpal,
		PaymentMethod:  entity.PaymentMethodCash,
		Actor:          "cajero-1",
		Lines:          lines,
	}
}

func TestProcessSale_CheckoutCompleto(t *testing.T) {
	store, engine := newFixture(t)
	ctx := context.Background()

	sale, err := engine.ProcessSale(ctx, saleInput("key-1",
		sales.SaleLine{Identifier: "CAM-M", Quantity: 2},         // por SKU
		sales.SaleLine{Identifier: variantPantalon, Quantity: 1}, // por ID
	))
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Equal(t, 2, sale.ItemCount)
	assert.Equal(t, fmt.Sprintf("SAL/%d/0001", time.Now().Year()), sale.Number)

	// 2×50.00 + 1×80.00 = 180.00; impuesto solo de la camiseta: 100×0.19 = 19.00.
	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("180.00")), "subtotal %s", sale.Subtotal)
	assert.True(t, sale.TaxTotal.Equal(decimal.RequireFromString("19.00")), "impuesto %s", sale.TaxTotal)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("199.00")), "total %s", sale.Total)

	// Las líneas congelan precio y tasa del catálogo.
	items, err := engine.GetSaleItems(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, items[0].TaxRate.Equal(decimal.RequireFromString("0.19")))

	// Stock descontado y un asiento SALE por línea referenciado a la venta.
	sum, err := store.Ledger().SumByKey(variantCamiseta, warehousePpal)
	require.NoError(t, err)
	assert.Equal(t, int64(98), sum)

	entries, err := store.Ledger().List(repository.LedgerFilter{EventType: entity.EventTypeSale, Limit: 50})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, sale.ID, e.RefID)
		assert.Equal(t, entity.RefTypeSale, e.RefType)
	}
}

func TestProcessSale_IdempotenciaDevuelveLaMismaVenta(t *testing.T) {
	store, engine := newFixture(t)
	ctx := context.Background()
	input := saleInput("key-retry", sales.SaleLine{Identifier: "CAM-M", Quantity: 2})

	first, err := engine.ProcessSale(ctx, input)
	require.NoError(t, err)

	// Reintento tras "fallo de red": misma venta, sin doble descuento.
	second, err := engine.ProcessSale(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)

	sum, err := store.Ledger().SumByKey(variantCamiseta, warehousePpal)
	require.NoError(t, err)
	assert.Equal(t, int64(98), sum, "el stock se descontó exactamente una vez")
}

func TestProcessSale_TodoONada(t *testing.T) {
	store, engine := newFixture(t)
	ctx := context.Background()

	// La segunda línea excede el stock: la primera tampoco debe descontarse.
	_, err := engine.ProcessSale(ctx, saleInput("key-fail",
		sales.SaleLine{Identifier: "CAM-M", Quantity: 2},
		sales.SaleLine{Identifier: "PAN-32", Quantity: 999},
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	sum, err := store.Ledger().SumByKey(variantCamiseta, warehousePpal)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum, "ninguna línea tocó stock")

	existing, err := store.Sales().GetByIdempotencyKey("key-fail")
	require.NoError(t, err)
	assert.Nil(t, existing, "la venta no quedó registrada")
}

func TestProcessSale_ConsecutivoAvanzaPorVenta(t *testing.T) {
	_, engine := newFixture(t)
	ctx := context.Background()
	year := time.Now().Year()

	first, err := engine.ProcessSale(ctx, saleInput("key-a", sales.SaleLine{Identifier: "CAM-M", Quantity: 1}))
	require.NoError(t, err)
	second, err := engine.ProcessSale(ctx, saleInput("key-b", sales.SaleLine{Identifier: "CAM-M", Quantity: 1}))
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("SAL/%d/0001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("SAL/%d/0002", year), second.Number)
}

func TestProcessSale_Validaciones(t *testing.T) {
	store, engine := newFixture(t)
	ctx := context.Background()

	// Sin clave de idempotencia.
	_, err := engine.ProcessSale(ctx, sales.SaleInput{
		WarehouseID:   warehousePpal,
		PaymentMethod: entity.PaymentMethodCash,
		Lines:         []sales.SaleLine{{Identifier: "CAM-M", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas.
	_, err = engine.ProcessSale(ctx, saleInput("key-empty"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Método de pago desconocido.
	in := saleInput("key-pay", sales.SaleLine{Identifier: "CAM-M", Quantity: 1})
	in.PaymentMethod = "BITCOIN"
	_, err = engine.ProcessSale(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = engine.ProcessSale(ctx, saleInput("key-qty", sales.SaleLine{Identifier: "CAM-M", Quantity: 0}))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Identificador que no resuelve.
	_, err = engine.ProcessSale(ctx, saleInput("key-miss", sales.SaleLine{Identifier: "NO-EXISTE", Quantity: 1}))
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Variante inactiva.
	store.SeedVariant(entity.ProductVariant{
		ID: "88888888-8888-8888-8888-888888888888", ProductID: productRopa,
		SKU: "CAM-OLD", Price: decimal.NewFromInt(10), Active: false,
	})
	_, err = engine.ProcessSale(ctx, saleInput("key-inactive", sales.SaleLine{Identifier: "CAM-OLD", Quantity: 1}))
	require.ErrorIs(t, err, domain.ErrInactiveVariant)
}

func TestGetSale_NoEncontrada(t *testing.T) {
	_, engine := newFixture(t)
	_, err := engine.GetSale(context.Background(), "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
