// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORE_DRIVER=memory (demo sin base de datos).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	parts      map[string]*entity.Part
	categories []entity.Category
	users      map[string]*entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		parts: make(map[string]*entity.Part),
		users: make(map[string]*entity.User),
	}
}

// Parts repositorio de repuestos sobre el almacén.
func (s *Store) Parts() *PartRepo { return &PartRepo{s: s} }

// Categories repositorio de categorías sobre el almacén.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Users repositorio de usuarios sobre el almacén.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner runner transaccional sobre el almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner no toma un lock global: cada escritura es atómica por sí misma y
// UpdateStock verifica la versión, igual que en PostgreSQL. La serialización por
// repuesto la da inventory.PartLocks.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con el repositorio de repuestos del almacén.
func (r *TxRunner) Run(ctx context.Context, fn func(parts repository.PartRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.s.Parts())
}

func clonePart(p *entity.Part) *entity.Part {
	c := *p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return &c
}
