package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

const (
	testVariantID   = "11111111-1111-1111-1111-111111111111"
	testVariant2ID  = "22222222-2222-2222-2222-222222222222"
	testProductID   = "33333333-3333-3333-3333-333333333333"
	testWarehouseID = "44444444-4444-4444-4444-444444444444"
	testWarehouse2  = "55555555-5555-5555-5555-555555555555"
)

func newFixture() (*memory.Store, *stock.Service) {
	store := memory.NewStore()
	now := time.Now()
	store.SeedProduct(entity.Product{ID: testProductID, Name: "Camiseta", Active: true, CreatedAt: now})
	store.SeedVariant(entity.ProductVariant{
		ID: testVariantID, ProductID: testProductID, SKU: "CAM-M",
		Description: "Talla M", Price: decimal.NewFromInt(50), Active: true, CreatedAt: now,
	})
	store.SeedVariant(entity.ProductVariant{
		ID: testVariant2ID, ProductID: testProductID, SKU: "CAM-L",
		Description: "Talla L", Price: decimal.NewFromInt(55), Active: true, CreatedAt: now,
	})
	store.SeedWarehouse(entity.Warehouse{ID: testWarehouseID, Name: "Principal", Active: true, CreatedAt: now})
	store.SeedWarehouse(entity.Warehouse{ID: testWarehouse2, Name: "Sucursal", Active: true, CreatedAt: now})

	svc := stock.NewService(store, store.Products(), store.Warehouses(), store.Ledger(), store.Snapshots())
	return store, svc
}

func TestRecordStockEvent_CompraYVenta(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	entry, err := svc.RecordPurchase(ctx, testVariantID, testWarehouseID, 100, "po-1", "", "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.EventTypePurchase, entry.EventType)
	assert.Equal(t, int64(100), entry.Quantity)

	_, err = svc.RecordSale(ctx, testVariantID, testWarehouseID, 2, "sale-1", "user-1")
	require.NoError(t, err)

	qty, err := svc.GetCurrentStock(ctx, testVariantID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(98), qty, "100 compradas - 2 vendidas = 98")

	// El snapshot y la suma del ledger deben coincidir siempre.
	sum, err := store.Ledger().SumByKey(testVariantID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, qty, sum, "snapshot y ledger deben estar de acuerdo")
}

func TestRecordStockEvent_StockInsuficienteNoDejaRastro(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, testVariantID, testWarehouseID, 5, "po-1", "", "user-1")
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, testVariantID, testWarehouseID, 10, "sale-1", "user-1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni asiento ni cambio de snapshot: la transacción se revirtió completa.
	qty, err := svc.GetCurrentStock(ctx, testVariantID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)

	entries, err := store.Ledger().List(repository.LedgerFilter{VariantID: testVariantID, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "solo el asiento de la compra")
}

func TestRecordAdjustment_NegativoRespetaElPiso(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, testVariantID, testWarehouseID, 50, "po-1", "", "user-1")
	require.NoError(t, err)

	// Un ajuste de -100 con 50 en mano se rechaza...
	_, err = svc.RecordAdjustment(ctx, testVariantID, testWarehouseID, -100, "conteo físico", "user-1", false)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// ...salvo que el operador lo fuerce explícitamente.
	_, err = svc.RecordAdjustment(ctx, testVariantID, testWarehouseID, -100, "conteo físico", "user-1", true)
	require.NoError(t, err)

	qty, err := svc.GetCurrentStock(ctx, testVariantID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), qty)
}

func TestRecordStockEvent_Validaciones(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	// Tipo de evento fuera del enum.
	_, err := svc.RecordStockEvent(ctx, stock.EventInput{
		VariantID: testVariantID, WarehouseID: testWarehouseID,
		EventType: "TRANSFER", Quantity: 1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad cero.
	_, err = svc.RecordStockEvent(ctx, stock.EventInput{
		VariantID: testVariantID, WarehouseID: testWarehouseID,
		EventType: entity.EventTypePurchase, Quantity: 0,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Variante inexistente.
	_, err = svc.RecordPurchase(ctx, "99999999-9999-9999-9999-999999999999", testWarehouseID, 1, "", "", "")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Variante inactiva.
	store.SeedVariant(entity.ProductVariant{
		ID: "66666666-6666-6666-6666-666666666666", ProductID: testProductID,
		SKU: "CAM-XL", Price: decimal.NewFromInt(60), Active: false,
	})
	_, err = svc.RecordPurchase(ctx, "66666666-6666-6666-6666-666666666666", testWarehouseID, 1, "", "", "")
	require.ErrorIs(t, err, domain.ErrInactiveVariant)

	// Bodega inactiva.
	store.SeedWarehouse(entity.Warehouse{ID: "77777777-7777-7777-7777-777777777777", Name: "Cerrada", Active: false})
	_, err = svc.RecordPurchase(ctx, testVariantID, "77777777-7777-7777-7777-777777777777", 1, "", "", "")
	require.ErrorIs(t, err, domain.ErrInactiveWarehouse)
}

func TestGetCurrentStock_SinSnapshotCaeAlLedger(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	// Asientos escritos directamente, sin pasar por el servicio: no hay snapshot.
	require.NoError(t, store.Ledger().Append(&entity.StockLedgerEntry{
		VariantID: testVariantID, WarehouseID: testWarehouseID,
		EventType: entity.EventTypePurchase, Quantity: 7, CreatedAt: time.Now(),
	}))

	qty, err := svc.GetCurrentStock(ctx, testVariantID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), qty, "sin snapshot, la respuesta sale de la suma del ledger")
}

func TestRecalculate_ReparaSnapshotDesviado(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, testVariantID, testWarehouseID, 30, "po-1", "", "user-1")
	require.NoError(t, err)
	_, err = svc.RecordSale(ctx, testVariantID, testWarehouseID, 10, "sale-1", "user-1")
	require.NoError(t, err)

	// Snapshot corrompido a mano.
	require.NoError(t, store.Snapshots().Upsert(&entity.StockSnapshot{
		VariantID: testVariantID, WarehouseID: testWarehouseID, Quantity: 999, UpdatedAt: time.Now(),
	}))

	snap, err := svc.Recalculate(ctx, testVariantID, testWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), snap.Quantity, "Recalculate restablece snapshot == Σ ledger")
}

func TestGetStockBreakdown_PorBodega(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, testVariantID, testWarehouseID, 10, "po-1", "", "")
	require.NoError(t, err)
	_, err = svc.RecordPurchase(ctx, testVariantID, testWarehouse2, 4, "po-2", "", "")
	require.NoError(t, err)

	snaps, err := svc.GetStockBreakdown(ctx, testVariantID)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, int64(10), snaps[0].Quantity)
	assert.Equal(t, int64(4), snaps[1].Quantity)
}

func TestListLedger_FiltraPorTipo(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, testVariantID, testWarehouseID, 10, "po-1", "", "")
	require.NoError(t, err)
	_, err = svc.RecordSale(ctx, testVariantID, testWarehouseID, 3, "sale-1", "")
	require.NoError(t, err)

	entries, err := svc.ListLedger(ctx, repository.LedgerFilter{
		VariantID: testVariantID, EventType: entity.EventTypeSale,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-3), entries[0].Quantity, "la venta queda como cantidad negativa")
	assert.Equal(t, "sale-1", entries[0].RefID)
}
