package numbering

import "fmt"

// Format arma el consecutivo legible PREFIJO/AÑO/NNNN (servicio de dominio).
// El número se rellena a 4 dígitos y se ensancha solo después de 9999, de modo
// que el orden lexicográfico dentro de un año coincide con el numérico.
func Format(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s/%d/%04d", prefix, year, n)
}
