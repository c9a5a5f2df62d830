package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución.
const (
	ReturnStatusCompleted = "COMPLETED"
)

// Return revierte parte o todo el efecto de una venta sin tocar los registros
// originales: reingresa stock vía eventos RETURN y calcula el reembolso desde
// los valores congelados de la venta.
type Return struct {
	ID             string
	SaleID         string
	WarehouseID    string
	Reason         string
	RefundSubtotal decimal.Decimal
	RefundTax      decimal.Decimal
	RefundTotal    decimal.Decimal
	Status         string
	Actor          string
	CreatedAt      time.Time
}

// ReturnItem es una línea de devolución. La suma de Quantity sobre todas las
// devoluciones de un mismo SaleItem nunca excede la cantidad original.
type ReturnItem struct {
	ID           string
	ReturnID     string
	SaleItemID   string
	Quantity     int64
	RefundAmount decimal.Decimal // derivado del precio congelado del SaleItem
}
