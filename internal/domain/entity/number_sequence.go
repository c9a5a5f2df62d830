package entity

import "time"

// NumberSequence es el contador monótono por (prefijo, año) para numerar
// ventas y facturas. Se crea perezosamente en el primer uso del año y se
// incrementa bajo bloqueo exclusivo dentro de la transacción del caller.
type NumberSequence struct {
	Prefix        string
	Year          int
	CurrentNumber int64
	UpdatedAt     time.Time
}
