package repository

// SequenceRepository es el puerto del generador de consecutivos.
type SequenceRepository interface {
	// Next bloquea el contador (prefijo, año) — creándolo en 0 si no existe —,
	// lo incrementa en 1 y devuelve el nuevo valor. Corre dentro de la
	// transacción del caller: si la operación mayor falla, el incremento se
	// revierte con ella y no se queman números.
	Next(prefix string, year int) (int64, error)
}
