package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, part_number, name, brand, category_id, description, cost_price, selling_price,
	discount, tax_percentage, quantity, min_stock_level, reorder_quantity, tags, sku, barcode,
	is_active, is_featured, views, sales_count, version, created_by, updated_by, created_at, updated_at`

// Columnas de ordenamiento permitidas (nunca se interpola entrada del usuario).
var partSortColumns = map[string]string{
	repository.SortCreatedAt:    "created_at",
	repository.SortName:         "name",
	repository.SortSellingPrice: "selling_price",
	repository.SortQuantity:     "quantity",
	repository.SortSalesCount:   "sales_count",
	repository.SortViews:        "views",
}

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador de persistencia para repuestos. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(
		&p.ID, &p.PartNumber, &p.Name, &p.Brand, &p.CategoryID, &p.Description, &p.CostPrice, &p.SellingPrice,
		&p.Discount, &p.TaxPercentage, &p.Quantity, &p.MinStockLevel, &p.ReorderQuantity, &p.Tags, &p.SKU, &p.Barcode,
		&p.IsActive, &p.IsFeatured, &p.Views, &p.SalesCount, &p.Version, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectParts(rows pgx.Rows) ([]*entity.Part, error) {
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo repuesto.
func (r *PartRepo) Create(ctx context.Context, part *entity.Part) error {
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	tags := part.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.q.Exec(ctx, query,
		part.ID, part.PartNumber, part.Name, part.Brand, part.CategoryID, part.Description, part.CostPrice, part.SellingPrice,
		part.Discount, part.TaxPercentage, part.Quantity, part.MinStockLevel, part.ReorderQuantity, tags, part.SKU, part.Barcode,
		part.IsActive, part.IsFeatured, part.Views, part.SalesCount, part.Version, part.CreatedBy, part.UpdatedBy, part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto por ID (activo o no). Devuelve nil si no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetByPartNumber obtiene un repuesto por número de parte normalizado.
func (r *PartRepo) GetByPartNumber(ctx context.Context, partNumber string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE part_number = $1`, partNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part by number: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el repuesto con bloqueo de fila (SELECT ... FOR UPDATE). Usar dentro de una tx.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part for update: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. No toca quantity (solo vía UpdateStock).
func (r *PartRepo) Update(ctx context.Context, part *entity.Part) error {
	query := `
		UPDATE parts SET name = $2, brand = $3, category_id = $4, description = $5, cost_price = $6, selling_price = $7,
			discount = $8, tax_percentage = $9, min_stock_level = $10, reorder_quantity = $11, tags = $12, sku = $13,
			barcode = $14, is_featured = $15, updated_by = $16, updated_at = $17, version = version + 1
		WHERE id = $1
		RETURNING version`
	tags := part.Tags
	if tags == nil {
		tags = []string{}
	}
	err := r.q.QueryRow(ctx, query,
		part.ID, part.Name, part.Brand, part.CategoryID, part.Description, part.CostPrice, part.SellingPrice,
		part.Discount, part.TaxPercentage, part.MinStockLevel, part.ReorderQuantity, tags, part.SKU,
		part.Barcode, part.IsFeatured, part.UpdatedBy, part.UpdatedAt,
	).Scan(&part.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPartNotFound
		}
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}

// UpdateStock escribe la nueva cantidad si la versión no cambió desde la lectura.
func (r *PartRepo) UpdateStock(ctx context.Context, part *entity.Part, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE parts SET quantity = $2, updated_by = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5`,
		part.ID, part.Quantity, part.UpdatedBy, part.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update part stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	part.Version = expectedVersion + 1
	return nil
}

// IncrementViews suma una vista al repuesto.
func (r *PartRepo) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE parts SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment part views: %w", err)
	}
	return nil
}

// SoftDelete marca el repuesto como inactivo.
func (r *PartRepo) SoftDelete(ctx context.Context, id, actorID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE parts SET is_active = false, updated_by = $2, updated_at = now(), version = version + 1
		WHERE id = $1 AND is_active`, id, actorID)
	if err != nil {
		return fmt.Errorf("soft delete part: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPartNotFound
	}
	return nil
}

// List lista repuestos activos con filtros, orden y paginación. Devuelve también el total sin paginar.
func (r *PartRepo) List(ctx context.Context, f repository.PartFilter) ([]*entity.Part, int, error) {
	where, args := buildPartWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM parts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count parts: %w", err)
	}

	col, ok := partSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM parts WHERE %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		partColumns, where, col, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list parts: %w", err)
	}
	list, err := collectParts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func buildPartWhere(f repository.PartFilter) (string, []any) {
	conds := []string{"is_active"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CategoryID != "" {
		add("category_id = $%d", f.CategoryID)
	}
	if f.Brand != "" {
		add("brand ILIKE $%d", likePattern(f.Brand))
	}
	if f.MinPrice != nil {
		add("selling_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("selling_price <= $%d", *f.MaxPrice)
	}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%[1]d OR part_number ILIKE $%[1]d OR brand ILIKE $%[1]d OR description ILIKE $%[1]d)", n))
	}
	switch f.StockStatus {
	case inventory.StatusOutOfStock:
		conds = append(conds, "quantity <= 0")
	case inventory.StatusLowStock:
		conds = append(conds, "quantity > 0 AND quantity <= min_stock_level")
	case inventory.StatusInStock:
		conds = append(conds, "quantity > min_stock_level")
	}
	return strings.Join(conds, " AND "), args
}

// Search búsqueda libre sobre repuestos activos, ordenada por vistas y ventas.
func (r *PartRepo) Search(ctx context.Context, query string, limit int) ([]*entity.Part, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+partColumns+` FROM parts
		WHERE is_active AND (name ILIKE $1 OR part_number ILIKE $1 OR brand ILIKE $1
			OR description ILIKE $1 OR $2 = ANY(tags))
		ORDER BY views DESC, sales_count DESC, id
		LIMIT $3`, likePattern(query), strings.ToLower(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search parts: %w", err)
	}
	return collectParts(rows)
}

// ListActive foto de todos los repuestos activos para el reporte agregado.
func (r *PartRepo) ListActive(ctx context.Context) ([]entity.Part, error) {
	rows, err := r.q.Query(ctx, `SELECT `+partColumns+` FROM parts WHERE is_active ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list active parts: %w", err)
	}
	list, err := collectParts(rows)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Part, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	return out, nil
}

// ListLowStock repuestos activos en o bajo su umbral, los más críticos primero.
func (r *PartRepo) ListLowStock(ctx context.Context) ([]*entity.Part, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+partColumns+` FROM parts
		WHERE is_active AND quantity <= min_stock_level
		ORDER BY quantity ASC, id`)
	if err != nil {
		return nil, fmt.Errorf("list low stock parts: %w", err)
	}
	return collectParts(rows)
}

// AggregateStats agregados globales sobre repuestos activos.
func (r *PartRepo) AggregateStats(ctx context.Context) (*repository.InventoryStats, error) {
	var s repository.InventoryStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity), 0),
			COALESCE(ROUND(AVG(selling_price), 2), 0), COALESCE(MAX(selling_price), 0), COALESCE(MIN(selling_price), 0),
			COALESCE(SUM(views), 0), COALESCE(SUM(sales_count), 0)
		FROM parts WHERE is_active`,
	).Scan(&s.TotalParts, &s.TotalQuantity, &s.AvgPrice, &s.MaxPrice, &s.MinPrice, &s.TotalViews, &s.TotalSales)
	if err != nil {
		return nil, fmt.Errorf("aggregate part stats: %w", err)
	}
	return &s, nil
}
