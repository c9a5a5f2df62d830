package numbering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/jhoicas/Ventas-api/internal/domain/numbering"
)

func TestFormat_RellenaACuatroDigitos(t *testing.T) {
	assert.Equal(t, "INV/2026/0001", numbering.Format("INV", 2026, 1))
	assert.Equal(t, "INV/2026/0042", numbering.Format("INV", 2026, 42))
	assert.Equal(t, "SAL/2026/9999", numbering.Format("SAL", 2026, 9999))
}

func TestFormat_EnsanchaDespuesDe9999(t *testing.T) {
	assert.Equal(t, "INV/2026/10000", numbering.Format("INV", 2026, 10000))
}

func TestFormat_OrdenLexicograficoCoincideConNumerico(t *testing.T) {
	prev := numbering.Format("INV", 2026, 1)
	for n := int64(2); n <= 120; n++ {
		cur := numbering.Format("INV", 2026, n)
		assert.Less(t, prev, cur, "los consecutivos deben crecer lexicográficamente")
		prev = cur
	}
}
