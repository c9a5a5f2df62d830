package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// ProductRepository es el puerto de lectura del catálogo. El core nunca
// escribe datos maestros: solo resuelve identificadores y flags de activo.
type ProductRepository interface {
	GetProductByID(id string) (*entity.Product, error)
	GetVariantByID(id string) (*entity.ProductVariant, error)
	GetVariantBySKU(sku string) (*entity.ProductVariant, error)
}
