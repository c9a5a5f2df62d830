package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// ReturnRepository es el puerto de persistencia de devoluciones. Insert-only.
type ReturnRepository interface {
	Create(ret *entity.Return) error
	CreateItem(item *entity.ReturnItem) error
	GetByID(id string) (*entity.Return, error)
	ListBySale(saleID string) ([]*entity.Return, error)
	ListItems(returnID string) ([]*entity.ReturnItem, error)
	// SumReturnedBySaleItem suma las cantidades ya devueltas de una línea de
	// venta, sobre todas sus devoluciones previas.
	SumReturnedBySaleItem(saleItemID string) (int64, error)
}
