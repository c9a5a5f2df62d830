package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del checkout. Identifier acepta SKU o ID de variante.
type SaleLineRequest struct {
	Identifier string `json:"identifier"`
	Quantity   int64  `json:"quantity"`
}

// ProcessSaleRequest body para POST /api/sales. La clave de idempotencia
// también puede venir en el header Idempotency-Key (tiene prioridad el header).
type ProcessSaleRequest struct {
	IdempotencyKey string            `json:"idempotency_key"`
	WarehouseID    string            `json:"warehouse_id"`
	PaymentMethod  string            `json:"payment_method"`
	Lines          []SaleLineRequest `json:"lines"`
}

// SaleResponse una venta en respuestas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	WarehouseID   string             `json:"warehouse_id"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	ItemCount     int                `json:"item_count"`
	PaymentMethod string             `json:"payment_method"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// SaleItemResponse una línea de venta en respuestas.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	LineTotal decimal.Decimal `json:"line_total"`
}
