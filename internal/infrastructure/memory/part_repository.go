package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación en memoria de PartRepository. Devuelve siempre copias.
type PartRepo struct {
	s *Store
}

// Create persiste un nuevo repuesto. El número de parte es único.
func (r *PartRepo) Create(_ context.Context, part *entity.Part) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.parts[part.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, p := range r.s.parts {
		if p.PartNumber == part.PartNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.parts[part.ID] = clonePart(part)
	return nil
}

// GetByID obtiene un repuesto por ID. Devuelve nil si no existe.
func (r *PartRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.parts[id]
	if !ok {
		return nil, nil
	}
	return clonePart(p), nil
}

// GetByPartNumber obtiene un repuesto por número de parte.
func (r *PartRepo) GetByPartNumber(_ context.Context, partNumber string) (*entity.Part, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.parts {
		if p.PartNumber == partNumber {
			return clonePart(p), nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID; la exclusión la da TxRunner.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	return r.GetByID(ctx, id)
}

// Update persiste los datos de catálogo conservando la cantidad almacenada.
func (r *PartRepo) Update(_ context.Context, part *entity.Part) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.parts[part.ID]
	if !ok {
		return domain.ErrPartNotFound
	}
	next := clonePart(part)
	next.Quantity = cur.Quantity
	next.Views = cur.Views
	next.SalesCount = cur.SalesCount
	next.Version = cur.Version + 1
	r.s.parts[part.ID] = next
	part.Quantity = cur.Quantity
	part.Version = next.Version
	return nil
}

// UpdateStock escribe la cantidad solo si la versión almacenada coincide.
func (r *PartRepo) UpdateStock(_ context.Context, part *entity.Part, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.parts[part.ID]
	if !ok {
		return domain.ErrPartNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	cur.Quantity = part.Quantity
	cur.UpdatedBy = part.UpdatedBy
	cur.UpdatedAt = part.UpdatedAt
	cur.Version++
	part.Version = cur.Version
	return nil
}

// IncrementViews suma una vista.
func (r *PartRepo) IncrementViews(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.parts[id]; ok {
		p.Views++
	}
	return nil
}

// SoftDelete marca el repuesto como inactivo.
func (r *PartRepo) SoftDelete(_ context.Context, id, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parts[id]
	if !ok || !p.IsActive {
		return domain.ErrPartNotFound
	}
	p.IsActive = false
	p.UpdatedBy = actorID
	p.Version++
	return nil
}

// List aplica los mismos filtros y orden que la implementación SQL.
func (r *PartRepo) List(_ context.Context, f repository.PartFilter) ([]*entity.Part, int, error) {
	r.s.mu.RLock()
	var list []*entity.Part
	for _, p := range r.s.parts {
		if p.IsActive && matchesFilter(p, f) {
			list = append(list, clonePart(p))
		}
	}
	r.s.mu.RUnlock()

	less := partLess(f.SortBy)
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if c := less(a, b); c != 0 {
			if f.SortAsc {
				return c < 0
			}
			return c > 0
		}
		return a.ID < b.ID
	})

	total := len(list)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return list[start:end], total, nil
}

// Search coincidencia parcial sin distinguir mayúsculas, ordenada por vistas y ventas.
func (r *PartRepo) Search(_ context.Context, query string, limit int) ([]*entity.Part, error) {
	q := strings.ToLower(query)
	r.s.mu.RLock()
	var list []*entity.Part
	for _, p := range r.s.parts {
		if !p.IsActive {
			continue
		}
		if containsFold(p.Name, q) || containsFold(p.PartNumber, q) || containsFold(p.Brand, q) ||
			containsFold(p.Description, q) || hasTag(p.Tags, q) {
			list = append(list, clonePart(p))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		if a.SalesCount != b.SalesCount {
			return a.SalesCount > b.SalesCount
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ListActive foto de repuestos activos ordenada por creación.
func (r *PartRepo) ListActive(_ context.Context) ([]entity.Part, error) {
	r.s.mu.RLock()
	out := make([]entity.Part, 0, len(r.s.parts))
	for _, p := range r.s.parts {
		if p.IsActive {
			out = append(out, *clonePart(p))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListLowStock repuestos activos con quantity <= minStockLevel, menor cantidad primero.
func (r *PartRepo) ListLowStock(_ context.Context) ([]*entity.Part, error) {
	r.s.mu.RLock()
	var list []*entity.Part
	for _, p := range r.s.parts {
		if p.IsActive && p.Quantity <= p.MinStockLevel {
			list = append(list, clonePart(p))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity != list[j].Quantity {
			return list[i].Quantity < list[j].Quantity
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// AggregateStats agregados sobre repuestos activos.
func (r *PartRepo) AggregateStats(_ context.Context) (*repository.InventoryStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var s repository.InventoryStats
	sum := decimal.Zero
	first := true
	for _, p := range r.s.parts {
		if !p.IsActive {
			continue
		}
		s.TotalParts++
		s.TotalQuantity += p.Quantity
		s.TotalViews += p.Views
		s.TotalSales += p.SalesCount
		sum = sum.Add(p.SellingPrice)
		if first || p.SellingPrice.GreaterThan(s.MaxPrice) {
			s.MaxPrice = p.SellingPrice
		}
		if first || p.SellingPrice.LessThan(s.MinPrice) {
			s.MinPrice = p.SellingPrice
		}
		first = false
	}
	if s.TotalParts > 0 {
		s.AvgPrice = sum.Div(decimal.NewFromInt(s.TotalParts)).Round(2)
	}
	return &s, nil
}

func matchesFilter(p *entity.Part, f repository.PartFilter) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Brand != "" && !containsFold(p.Brand, strings.ToLower(f.Brand)) {
		return false
	}
	if f.MinPrice != nil && p.SellingPrice.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.SellingPrice.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !containsFold(p.Name, q) && !containsFold(p.PartNumber, q) && !containsFold(p.Brand, q) && !containsFold(p.Description, q) {
			return false
		}
	}
	if f.StockStatus != "" && p.StockStatus() != f.StockStatus {
		return false
	}
	return true
}

// partLess compara por el campo de orden; devuelve <0, 0 o >0.
func partLess(sortBy string) func(a, b *entity.Part) int {
	switch sortBy {
	case repository.SortName:
		return func(a, b *entity.Part) int { return strings.Compare(a.Name, b.Name) }
	case repository.SortSellingPrice:
		return func(a, b *entity.Part) int { return a.SellingPrice.Cmp(b.SellingPrice) }
	case repository.SortQuantity:
		return func(a, b *entity.Part) int { return cmpInt(a.Quantity, b.Quantity) }
	case repository.SortSalesCount:
		return func(a, b *entity.Part) int { return cmpInt(a.SalesCount, b.SalesCount) }
	case repository.SortViews:
		return func(a, b *entity.Part) int { return cmpInt(a.Views, b.Views) }
	default:
		return func(a, b *entity.Part) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func hasTag(tags []string, lowerQuery string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == lowerQuery {
			return true
		}
	}
	return false
}
