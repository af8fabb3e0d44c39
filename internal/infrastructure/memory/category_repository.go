package memory

import (
	"context"

	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria, en orden de inserción.
type CategoryRepo struct {
	s *Store
}

// Create persiste una categoría. Nombre y slug son únicos.
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.categories {
		if ex.ID == c.ID || ex.Name == c.Name || ex.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.categories = append(r.s.categories, *c)
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.categories {
		if r.s.categories[i].ID == id {
			c := r.s.categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

// List devuelve las categorías en orden de creación.
func (r *CategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.Category(nil), r.s.categories...), nil
}
