package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// UserRepository es el puerto de persistencia de usuarios (solo para auth).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
