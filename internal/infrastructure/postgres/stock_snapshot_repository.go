package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockSnapshotRepository = (*StockSnapshotRepo)(nil)

// StockSnapshotRepo caché de existencias por (variante, bodega).
type StockSnapshotRepo struct {
	q Querier
}

func NewStockSnapshotRepository(q Querier) *StockSnapshotRepo {
	return &StockSnapshotRepo{q: q}
}

// Get devuelve el snapshot o (nil, nil) si la clave nunca tuvo movimientos.
func (r *StockSnapshotRepo) Get(variantID, warehouseID string) (*entity.StockSnapshot, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, updated_at
		FROM stock_snapshots WHERE variant_id = $1 AND warehouse_id = $2`
	snap, err := scanSnapshot(r.q.QueryRow(context.Background(), query, variantID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// LockForUpdate toma el bloqueo de fila del snapshot dentro de la tx actual,
// creando la fila en cero si no existe. Serializa las mutaciones de la clave.
func (r *StockSnapshotRepo) LockForUpdate(variantID, warehouseID string) (*entity.StockSnapshot, error) {
	ctx := context.Background()
	insert := `
		INSERT INTO stock_snapshots (variant_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, variantID, warehouseID, time.Now()); err != nil {
		return nil, fmt.Errorf("seed snapshot: %w", err)
	}
	query := `
		SELECT variant_id, warehouse_id, quantity, updated_at
		FROM stock_snapshots WHERE variant_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	snap, err := scanSnapshot(r.q.QueryRow(ctx, query, variantID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("lock snapshot: %w", err)
	}
	return snap, nil
}

// Upsert fija la cantidad del snapshot.
func (r *StockSnapshotRepo) Upsert(snap *entity.StockSnapshot) error {
	query := `
		INSERT INTO stock_snapshots (variant_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (variant_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		snap.VariantID, snap.WarehouseID, snap.Quantity, snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// ListByVariant devuelve el desglose por bodega de una variante.
func (r *StockSnapshotRepo) ListByVariant(variantID string) ([]*entity.StockSnapshot, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, updated_at
		FROM stock_snapshots WHERE variant_id = $1
		ORDER BY warehouse_id`
	rows, err := r.q.Query(context.Background(), query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		list = append(list, snap)
	}
	return list, rows.Err()
}

func scanSnapshot(row pgx.Row) (*entity.StockSnapshot, error) {
	var s entity.StockSnapshot
	if err := row.Scan(&s.VariantID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
