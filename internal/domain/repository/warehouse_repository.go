package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// WarehouseRepository es el puerto de lectura de bodegas (datos maestros).
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
}
