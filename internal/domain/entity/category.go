package entity

import "time"

// Category agrupa repuestos (frenos, suspensión, filtros...).
// El orden de creación desempata el desglose por categoría del dashboard.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
