package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnLineRequest una línea a devolver, contra la línea original de la venta.
type ReturnLineRequest struct {
	SaleItemID string `json:"sale_item_id"`
	Quantity   int64  `json:"quantity"`
}

// ProcessReturnRequest body para POST /api/sales/:id/returns.
type ProcessReturnRequest struct {
	WarehouseID string              `json:"warehouse_id"`
	Reason      string              `json:"reason,omitempty"`
	Items       []ReturnLineRequest `json:"items"`
}

// ReturnResponse una devolución en respuestas.
type ReturnResponse struct {
	ID             string               `json:"id"`
	SaleID         string               `json:"sale_id"`
	WarehouseID    string               `json:"warehouse_id"`
	Reason         string               `json:"reason,omitempty"`
	RefundSubtotal decimal.Decimal      `json:"refund_subtotal"`
	RefundTax      decimal.Decimal      `json:"refund_tax"`
	RefundTotal    decimal.Decimal      `json:"refund_total"`
	Status         string               `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	Items          []ReturnItemResponse `json:"items,omitempty"`
}

// ReturnItemResponse una línea de devolución en respuestas.
type ReturnItemResponse struct {
	ID           string          `json:"id"`
	SaleItemID   string          `json:"sale_item_id"`
	Quantity     int64           `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}
