package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// StockSnapshotRepository es el puerto del cache de stock por (variante, bodega).
type StockSnapshotRepository interface {
	// Get devuelve el snapshot o (nil, nil) si la clave no existe todavía.
	Get(variantID, warehouseID string) (*entity.StockSnapshot, error)
	// LockForUpdate crea la fila en 0 si no existe y la bloquea
	// (SELECT FOR UPDATE). Serializa todas las mutaciones concurrentes
	// sobre la misma clave; solo tiene sentido dentro de una transacción.
	LockForUpdate(variantID, warehouseID string) (*entity.StockSnapshot, error)
	Upsert(snap *entity.StockSnapshot) error
	// ListByVariant lista los snapshots de una variante en todas las bodegas.
	ListByVariant(variantID string) ([]*entity.StockSnapshot, error)
}
