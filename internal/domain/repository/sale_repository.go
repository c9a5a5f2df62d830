package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// SaleRepository es el puerto de persistencia de ventas. Insert-only para
// cabecera y líneas: una venta nunca se edita; las correcciones van por
// devoluciones.
type SaleRepository interface {
	// Create inserta la cabecera. Devuelve domain.ErrDuplicate (envuelto) si
	// la clave de idempotencia ya existe: el caller debe releer y devolver la
	// venta existente en lugar de fallar.
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetByIdempotencyKey(key string) (*entity.Sale, error)
	ListItems(saleID string) ([]*entity.SaleItem, error)
	// ListItemsForUpdate bloquea las líneas de la venta (SELECT FOR UPDATE)
	// para que el cálculo de cantidades ya devueltas sea estable frente a
	// devoluciones concurrentes.
	ListItemsForUpdate(saleID string) ([]*entity.SaleItem, error)
}
