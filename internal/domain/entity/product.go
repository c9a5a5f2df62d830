package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El core solo lo lee (existencia
// y flag de activo); el mantenimiento del catálogo ocurre fuera de este módulo.
type Product struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductVariant es la unidad vendible (SKU). Price y TaxRate son los valores
// vivos del catálogo; las ventas los congelan al momento del checkout.
type ProductVariant struct {
	ID          string
	ProductID   string
	SKU         string // único
	Description string // talla, color, presentación...
	Price       decimal.Decimal
	TaxRate     decimal.Decimal // fracción (0.19 = 19%)
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
