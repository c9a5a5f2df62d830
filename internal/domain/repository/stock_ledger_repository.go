package repository

import (
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// LedgerFilter filtros de consulta sobre el ledger (para reportes/auditoría).
type LedgerFilter struct {
	VariantID   string
	WarehouseID string
	EventType   string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockLedgerRepository es el puerto del ledger de stock. Solo expone Append
// y lecturas: no existe Update ni Delete por contrato — cualquier intento de
// mutación se rechaza en la capa de almacenamiento (trigger) con
// domain.ErrImmutableRecord.
type StockLedgerRepository interface {
	Append(entry *entity.StockLedgerEntry) error
	GetByID(id string) (*entity.StockLedgerEntry, error)
	List(filter LedgerFilter) ([]*entity.StockLedgerEntry, error)
	// SumByKey suma las cantidades con signo de todos los asientos de la
	// clave (variante, bodega). Fuente de verdad para Recalculate.
	SumByKey(variantID, warehouseID string) (int64, error)
}
