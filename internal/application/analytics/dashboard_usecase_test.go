package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autoparts-api/internal/application/analytics"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "frenos", Name: "Frenos", Slug: "frenos"}))
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "filtros", Name: "Filtros", Slug: "filtros"}))

	parts := []entity.Part{
		{ID: "p1", PartNumber: "BR-1", Name: "Pastilla", CategoryID: "frenos", Quantity: 0, MinStockLevel: 5, SalesCount: 9},
		{ID: "p2", PartNumber: "BR-2", Name: "Disco", CategoryID: "frenos", Quantity: 2, MinStockLevel: 5, SalesCount: 1},
		{ID: "p3", PartNumber: "FL-1", Name: "Filtro aire", CategoryID: "filtros", Quantity: 30, MinStockLevel: 5, SalesCount: 4},
		{ID: "p4", PartNumber: "FL-2", Name: "Filtro aceite", CategoryID: "filtros", Quantity: 8, MinStockLevel: 5},
	}
	for i := range parts {
		p := parts[i]
		p.CostPrice = decimal.NewFromInt(10)
		p.SellingPrice = decimal.NewFromInt(20)
		p.ReorderQuantity = entity.DefaultReorderQuantity
		p.IsActive = true
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Parts().Create(ctx, &p))
	}
	return store
}

func TestDashboard_GetSummary(t *testing.T) {
	store := seedStore(t)
	uc := analytics.NewDashboardUseCase(store.Parts(), store.Categories())

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	s := out.Summary
	assert.Equal(t, 4, s.TotalParts)
	assert.Equal(t, 1, s.OutOfStock)
	assert.Equal(t, 1, s.LowStock)
	assert.Equal(t, 2, s.InStock)
	assert.True(t, decimal.NewFromInt(400).Equal(s.InventoryValue.TotalCost))
	assert.True(t, decimal.NewFromInt(800).Equal(s.InventoryValue.TotalSelling))

	require.Len(t, out.CategoryDistribution, 2)
	assert.Equal(t, "Frenos", out.CategoryDistribution[0].Name, "empate a 2: gana la categoría creada primero")
	assert.True(t, decimal.NewFromInt(40).Equal(out.CategoryDistribution[0].TotalValue))

	require.NotEmpty(t, out.TopSellingParts)
	assert.Equal(t, "p1", out.TopSellingParts[0].ID)
	require.NotEmpty(t, out.RecentParts)
	assert.Equal(t, "p4", out.RecentParts[0].ID)
	assert.False(t, out.GeneratedAt.IsZero())
}

func TestDashboard_GetLowStockYStats(t *testing.T) {
	store := seedStore(t)
	uc := analytics.NewDashboardUseCase(store.Parts(), store.Categories())
	ctx := context.Background()

	low, err := uc.GetLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "p1", low[0].PartID)
	assert.Equal(t, "p2", low[1].PartID)

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalParts)
	assert.Equal(t, int64(40), stats.TotalQuantity)
	assert.Equal(t, int64(14), stats.TotalSales)
}
