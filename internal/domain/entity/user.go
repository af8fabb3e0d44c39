package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User representa un usuario del sistema (operador de back-office o cliente de la tienda).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, customer
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
