// Package analytics contiene los casos de uso de lectura del dashboard de inventario.
package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/reporting"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

// DashboardUseCase genera los reportes agregados del dashboard.
//
// Lee la foto actual de la base bajo demanda; no participa en el camino de mutación
// y puede quedar desfasado respecto a una mutación en curso.
type DashboardUseCase struct {
	partRepo      repository.PartRepository
	categoryRepo  repository.CategoryRepository
	replenishment *inventory.ReplenishmentUseCase
	opts          reporting.Options
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso con las opciones por defecto.
func NewDashboardUseCase(partRepo repository.PartRepository, categoryRepo repository.CategoryRepository) *DashboardUseCase {
	return &DashboardUseCase{
		partRepo:      partRepo,
		categoryRepo:  categoryRepo,
		replenishment: inventory.NewReplenishmentUseCase(partRepo),
		opts:          reporting.DefaultOptions(),
		now:           time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos lecturas en paralelo: foto de repuestos activos y categorías (para nombres y desempate).
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		parts      []entity.Part
		categories []entity.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		parts, err = uc.partRepo.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = uc.categoryRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := reporting.Summarize(parts, categories, uc.opts)
	out := &dto.DashboardSummaryDTO{
		Summary: dto.StockSummaryDTO{
			TotalParts: s.TotalActive,
			OutOfStock: s.OutOfStock,
			LowStock:   s.LowStock,
			InStock:    s.InStock,
			InventoryValue: dto.InventoryValueDTO{
				TotalCost:    s.Value.TotalCost,
				TotalSelling: s.Value.TotalSelling,
			},
		},
		CategoryDistribution: make([]dto.CategoryValueDTO, 0, len(s.Categories)),
		TopSellingParts:      toPartDTOs(s.TopSelling),
		RecentParts:          toPartDTOs(s.Recent),
		GeneratedAt:          uc.now(),
	}
	for _, c := range s.Categories {
		out.CategoryDistribution = append(out.CategoryDistribution, dto.CategoryValueDTO{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Count:      c.Count,
			TotalValue: c.TotalValue,
		})
	}
	return out, nil
}

// GetLowStock repuestos en o bajo su mínimo con la cantidad sugerida de pedido.
func (uc *DashboardUseCase) GetLowStock(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	return uc.replenishment.GenerateReplenishmentList(ctx)
}

// GetStats agregados globales calculados por el store.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.InventoryStatsDTO, error) {
	s, err := uc.partRepo.AggregateStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryStatsDTO{
		TotalParts:    s.TotalParts,
		TotalQuantity: s.TotalQuantity,
		AvgPrice:      s.AvgPrice,
		MaxPrice:      s.MaxPrice,
		MinPrice:      s.MinPrice,
		TotalViews:    s.TotalViews,
		TotalSales:    s.TotalSales,
	}, nil
}

func toPartDTOs(refs []reporting.PartRef) []dto.DashboardPartDTO {
	out := make([]dto.DashboardPartDTO, 0, len(refs))
	for _, r := range refs {
		out = append(out, dto.DashboardPartDTO{
			ID:           r.ID,
			PartNumber:   r.PartNumber,
			Name:         r.Name,
			Brand:        r.Brand,
			CategoryID:   r.CategoryID,
			SalesCount:   r.SalesCount,
			SellingPrice: r.SellingPrice,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}
