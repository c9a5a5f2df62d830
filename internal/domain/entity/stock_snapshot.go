package entity

import "time"

// StockSnapshot es el total corriente cacheado para una clave (variante, bodega).
// Vista materializada del ledger: siempre reconstruible con Recalculate y
// mutada solo bajo SELECT FOR UPDATE dentro de la transacción del evento.
type StockSnapshot struct {
	VariantID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
