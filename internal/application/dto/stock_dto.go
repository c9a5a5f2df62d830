package dto

import "time"

// RecordEventRequest body para POST /api/stock/events.
// Type ∈ {PURCHASE, SALE, RETURN, ADJUSTMENT}; Quantity con signo.
type RecordEventRequest struct {
	VariantID     string `json:"variant_id"`
	WarehouseID   string `json:"warehouse_id"`
	Type          string `json:"type"`
	Quantity      int64  `json:"quantity"`
	RefType       string `json:"ref_type,omitempty"`
	RefID         string `json:"ref_id,omitempty"`
	Note          string `json:"note,omitempty"`
	AllowNegative bool   `json:"allow_negative,omitempty"`
}

// LedgerEntryResponse un asiento del ledger en respuestas.
type LedgerEntryResponse struct {
	ID          string    `json:"id"`
	VariantID   string    `json:"variant_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	RefType     string    `json:"ref_type,omitempty"`
	RefID       string    `json:"ref_id,omitempty"`
	Note        string    `json:"note,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockResponse cantidad actual de una clave (variante, bodega).
type StockResponse struct {
	VariantID   string `json:"variant_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// StockBreakdownRow una fila del desglose por bodega.
type StockBreakdownRow struct {
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// RecalculateRequest body para POST /api/stock/recalculate.
type RecalculateRequest struct {
	VariantID   string `json:"variant_id"`
	WarehouseID string `json:"warehouse_id"`
}
