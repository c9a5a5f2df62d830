package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cajero"
)

// User es la cuenta que opera la caja. El core recibe solo su ID como actor;
// autenticación y autorización ocurren en la capa de interfaces.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
