package entity

import "time"

// Tipos de evento del ledger de stock. Enum cerrado: la frontera de mutación
// (application/stock) hace switch exhaustivo sobre estos valores.
const (
	EventTypePurchase   = "PURCHASE"   // entrada por compra (cantidad positiva)
	EventTypeSale       = "SALE"       // salida por venta (cantidad negativa)
	EventTypeReturn     = "RETURN"     // reingreso por devolución (cantidad positiva)
	EventTypeAdjustment = "ADJUSTMENT" // ajuste manual (cualquier signo)
)

// ValidEventType reporta si s es uno de los cuatro tipos de evento.
func ValidEventType(s string) bool {
	switch s {
	case EventTypePurchase, EventTypeSale, EventTypeReturn, EventTypeAdjustment:
		return true
	}
	return false
}

// Tipos de referencia: enlazan un asiento del ledger con la operación de
// negocio que lo originó.
const (
	RefTypePurchase   = "PURCHASE"
	RefTypeSale       = "SALE"
	RefTypeReturn     = "RETURN"
	RefTypeAdjustment = "ADJUSTMENT"
)

// StockLedgerEntry es un asiento append-only del ledger de stock: un cambio
// de cantidad con signo contra una clave (variante, bodega). Una vez escrito
// nunca se edita ni se borra; las correcciones son asientos nuevos.
type StockLedgerEntry struct {
	ID          string
	VariantID   string
	WarehouseID string
	EventType   string
	Quantity    int64 // con signo: positivo entra, negativo sale
	RefType     string
	RefID       string
	Note        string
	Actor       string
	CreatedAt   time.Time
}
