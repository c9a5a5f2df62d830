package returns_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/returns"
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

// fixture: venta completada de 2×50.00 sin impuesto, con 100 unidades compradas.
func newFixture(t *testing.T) (*memory.Store, *returns.Engine, *entity.Sale, []*entity.SaleItem) {
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
		PaymentMethod:  entity.PaymentMethodCash,
		Actor:          "cajero-1",
		Lines:          []sales.SaleLine{{Identifier: "CAM-M", Quantity: 2}},
	})
	require.NoError(t, err)
	items, err := store.Sales().ListItems(sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	engine := returns.NewEngine(store, store.Sales(), store.Returns(), store.Warehouses())
	return store, engine, sale, items
}

func TestProcessReturn_ReembolsoConPrecioCongelado(t *testing.T) {
	store, engine, sale, items := newFixture(t)
	ctx := context.Background()

	// El catálogo sube a 60.00 después de la venta: el reembolso debe seguir
	// saliendo del 50.00 congelado en la línea.
	store.SeedVariant(entity.ProductVariant{
		ID: variantID, ProductID: productID, SKU: "CAM-M", Description: "Talla M",
		Price: decimal.RequireFromString("60.00"), TaxRate: decimal.Zero, Active: true,
	})

	ret, err := engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID:      sale.ID,
		WarehouseID: warehouseID,
		Reason:      "no era la talla",
		Actor:       "cajero-1",
		Items:       []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, ret.RefundSubtotal.Equal(decimal.RequireFromString("100.00")), "reembolso %s", ret.RefundSubtotal)
	assert.True(t, ret.RefundTax.IsZero())
	assert.True(t, ret.RefundTotal.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, entity.ReturnStatusCompleted, ret.Status)

	// Stock de vuelta a 100 vía asiento RETURN; la venta original no se tocó.
	sum, err := store.Ledger().SumByKey(variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum)

	original, err := store.Sales().GetByID(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, original.Status)
	assert.True(t, original.Total.Equal(sale.Total))
}

func TestProcessReturn_ReembolsaImpuestoCongelado(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()
	store.SeedProduct(entity.Product{ID: productID, Name: "Camiseta", Active: true, CreatedAt: now})
	store.SeedVariant(entity.ProductVariant{
		ID: variantID, ProductID: productID, SKU: "CAM-M",
		Price: decimal.RequireFromString("50.00"), TaxRate: decimal.RequireFromString("0.19"),
		Active: true, CreatedAt: now,
	})
	store.SeedWarehouse(entity.Warehouse{ID: warehouseID, Name: "Principal", Active: true, CreatedAt: now})

	stockSvc := stock.NewService(store, store.Products(), store.Warehouses(), store.Ledger(), store.Snapshots())
	ctx := context.Background()
	_, err := stockSvc.RecordPurchase(ctx, variantID, warehouseID, 10, "po-1", "", "seed")
	require.NoError(t, err)

	salesEngine := sales.NewEngine(store, store.Products(), store.Warehouses(), store.Sales(), "SAL")
	sale, err := salesEngine.ProcessSale(ctx, sales.SaleInput{
		IdempotencyKey: "key-tax", WarehouseID: warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Lines:         []sales.SaleLine{{Identifier: "CAM-M", Quantity: 1}},
	})
	require.NoError(t, err)
	items, err := store.Sales().ListItems(sale.ID)
	require.NoError(t, err)

	engine := returns.NewEngine(store, store.Sales(), store.Returns(), store.Warehouses())
	ret, err := engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: sale.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// 50.00 + 19% congelado = 9.50 de impuesto.
	assert.True(t, ret.RefundSubtotal.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, ret.RefundTax.Equal(decimal.RequireFromString("9.50")), "impuesto %s", ret.RefundTax)
	assert.True(t, ret.RefundTotal.Equal(decimal.RequireFromString("59.50")))
}

func TestProcessReturn_NoExcedeLoVendido(t *testing.T) {
	store, engine, sale, items := newFixture(t)
	ctx := context.Background()

	_, err := engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: sale.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: 3}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidReturnQty)

	// Nada cambió: ni devolución ni stock.
	rets, err := store.Returns().ListBySale(sale.ID)
	require.NoError(t, err)
	assert.Empty(t, rets)

	sum, err := store.Ledger().SumByKey(variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(98), sum)
}

func TestProcessReturn_LineasRepetidasCuentanContraElTope(t *testing.T) {
	store, engine, sale, items := newFixture(t)
	ctx := context.Background()

	// La misma línea de venta repetida dentro de una sola solicitud: 2+2
	// contra una venta de 2 debe rechazarse igual que en llamadas separadas.
	_, err := engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: sale.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{
			{SaleItemID: items[0].ID, Quantity: 2},
			{SaleItemID: items[0].ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidReturnQty)

	rets, err := store.Returns().ListBySale(sale.ID)
	require.NoError(t, err)
	assert.Empty(t, rets)

	sum, err := store.Ledger().SumByKey(variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(98), sum)

	// Repetida pero dentro del tope (1+1 de 2) sí pasa, con el reembolso sumado.
	ret, err := engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: sale.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{
			{SaleItemID: items[0].ID, Quantity: 1},
			{SaleItemID: items[0].ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, ret.RefundTotal.Equal(decimal.RequireFromString("100.00")), "reembolso %s", ret.RefundTotal)

	sum, err = store.Ledger().SumByKey(variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum)
}

func TestProcessReturn_ParcialesAcumulan(t *testing.T) {
	store, engine, sale, items := newFixture(t)
	ctx := context.Background()

	line := func(qty int64) returns.ReturnInput {
		return returns.ReturnInput{
			SaleID: sale.ID, WarehouseID: warehouseID,
			Items: []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: qty}},
		}
	}

	_, err := engine.ProcessReturn(ctx, line(1))
	require.NoError(t, err)
	_, err = engine.ProcessReturn(ctx, line(1))
	require.NoError(t, err)

	// Tercera unidad de una venta de 2: el acumulado manda.
	_, err = engine.ProcessReturn(ctx, line(1))
	require.ErrorIs(t, err, domain.ErrInvalidReturnQty)

	rets, err := store.Returns().ListBySale(sale.ID)
	require.NoError(t, err)
	assert.Len(t, rets, 2)

	sum, err := store.Ledger().SumByKey(variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum, "las 2 unidades volvieron al stock")
}

func TestProcessReturn_Validaciones(t *testing.T) {
	store, engine, sale, items := newFixture(t)
	ctx := context.Background()

	// Sin líneas.
	_, err := engine.ProcessReturn(ctx, returns.ReturnInput{SaleID: sale.ID, WarehouseID: warehouseID})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: sale.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: 0}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Venta inexistente.
	_, err = engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: "no-existe", WarehouseID: warehouseID,
		Items: []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Línea de otra venta.
	_, err = engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: sale.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{{SaleItemID: "otra-linea", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Venta no completada.
	failed := &entity.Sale{
		ID: "bbbbbbbb-0000-0000-0000-000000000000", Number: "SAL/2026/0099",
		IdempotencyKey: "key-cancelled", WarehouseID: warehouseID,
		Status: entity.SaleStatusCancelled, PaymentMethod: entity.PaymentMethodCash,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Sales().Create(failed))
	_, err = engine.ProcessReturn(ctx, returns.ReturnInput{
		SaleID: failed.ID, WarehouseID: warehouseID,
		Items: []returns.ReturnLine{{SaleItemID: items[0].ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrSaleNotCompleted)
}
