package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
)

// Campos de ordenamiento permitidos para el listado de repuestos.
const (
	SortCreatedAt    = "createdAt"
	SortName         = "name"
	SortSellingPrice = "sellingPrice"
	SortQuantity     = "quantity"
	SortSalesCount   = "salesCount"
	SortViews        = "views"
)

// PartFilter criterios del listado público de repuestos (solo activos).
type PartFilter struct {
	CategoryID  string
	Brand       string // coincidencia parcial, sin distinguir mayúsculas
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Search      string // nombre, número de parte, marca o descripción
	StockStatus inventory.StockStatus
	SortBy      string
	SortAsc     bool
	Limit       int
	Offset      int
}

// InventoryStats agregados globales sobre repuestos activos.
type InventoryStats struct {
	TotalParts    int64
	TotalQuantity int64
	AvgPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	MinPrice      decimal.Decimal
	TotalViews    int64
	TotalSales    int64
}

// PartRepository define el puerto de persistencia para Part (DIP).
// Las implementaciones pueden estar atadas a una transacción (ver TxRunner).
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*entity.Part, error)
	// GetForUpdate obtiene el repuesto y bloquea su registro hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Part, error)
	// Update persiste los datos de catálogo (no toca Quantity). Incrementa Version.
	Update(ctx context.Context, part *entity.Part) error
	// UpdateStock persiste Quantity y auditoría solo si la versión almacenada es expectedVersion;
	// si no, devuelve domain.ErrConcurrentModification.
	UpdateStock(ctx context.Context, part *entity.Part, expectedVersion int64) error
	IncrementViews(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id, actorID string) error
	List(ctx context.Context, filter PartFilter) ([]*entity.Part, int, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.Part, error)
	// ListActive devuelve la foto completa de repuestos activos (para agregación).
	ListActive(ctx context.Context) ([]entity.Part, error)
	// ListLowStock repuestos activos con quantity <= minStockLevel, ordenados por cantidad asc.
	ListLowStock(ctx context.Context) ([]*entity.Part, error)
	AggregateStats(ctx context.Context) (*InventoryStats, error)
}
