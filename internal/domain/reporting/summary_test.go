package reporting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/reporting"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func part(id, category string, qty, min, sales int64, cost, price string, age time.Duration) entity.Part {
	return entity.Part{
		ID:            id,
		PartNumber:    "PN-" + id,
		Name:          "Repuesto " + id,
		CategoryID:    category,
		CostPrice:     decimal.RequireFromString(cost),
		SellingPrice:  decimal.RequireFromString(price),
		Quantity:      qty,
		MinStockLevel: min,
		SalesCount:    sales,
		IsActive:      true,
		CreatedAt:     base.Add(-age),
	}
}

func TestSummarize_ConteosYValor(t *testing.T) {
	inactive := part("x", "c1", 100, 5, 99, "1", "1", 0)
	inactive.IsActive = false
	snapshot := []entity.Part{
		part("a", "c1", 0, 5, 1, "10", "20", 4*time.Hour),  // agotado
		part("b", "c1", 3, 5, 2, "10", "20", 3*time.Hour),  // bajo
		part("c", "c2", 5, 5, 3, "10", "20", 2*time.Hour),  // bajo (en el umbral)
		part("d", "c2", 50, 5, 4, "2", "3.5", 1*time.Hour), // en stock
		inactive,
	}
	cats := []entity.Category{{ID: "c1", Name: "Frenos"}, {ID: "c2", Name: "Filtros"}}

	s := reporting.Summarize(snapshot, cats, reporting.DefaultOptions())

	assert.Equal(t, 4, s.TotalActive, "los inactivos no cuentan")
	assert.Equal(t, 1, s.OutOfStock)
	assert.Equal(t, 2, s.LowStock)
	assert.Equal(t, 1, s.InStock)
	assert.Equal(t, s.TotalActive, s.InStock+s.LowStock+s.OutOfStock)

	// costo: 0*10 + 3*10 + 5*10 + 50*2 = 180; venta: 0 + 60 + 100 + 175 = 335
	assert.True(t, decimal.NewFromInt(180).Equal(s.Value.TotalCost), s.Value.TotalCost.String())
	assert.True(t, decimal.NewFromInt(335).Equal(s.Value.TotalSelling), s.Value.TotalSelling.String())

	require.Len(t, s.TopSelling, 4)
	assert.Equal(t, "d", s.TopSelling[0].ID)
	require.Len(t, s.Recent, 4)
	assert.Equal(t, "d", s.Recent[0].ID)
	assert.Equal(t, "a", s.Recent[3].ID)
}

func TestSummarize_EmpateDeCategoriasPorOrdenDeCreacion(t *testing.T) {
	snapshot := []entity.Part{
		part("a", "c2", 10, 1, 0, "1", "1", 0),
		part("b", "zz", 10, 1, 0, "1", "1", 0), // categoría desconocida
		part("c", "c1", 10, 1, 0, "1", "1", 0),
		part("d", "c3", 10, 1, 0, "1", "1", 0),
		part("e", "c3", 10, 1, 0, "1", "1", 0),
	}
	cats := []entity.Category{{ID: "c1", Name: "Frenos"}, {ID: "c2", Name: "Filtros"}, {ID: "c3", Name: "Eléctrico"}}

	s := reporting.Summarize(snapshot, cats, reporting.DefaultOptions())

	ids := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		ids = append(ids, c.CategoryID)
	}
	assert.Equal(t, []string{"c3", "c1", "c2", "zz"}, ids)
	assert.Equal(t, "Eléctrico", s.Categories[0].Name)
	assert.Equal(t, 2, s.Categories[0].Count)
}

func TestSummarize_TopVentasEmpataPorMasReciente(t *testing.T) {
	snapshot := []entity.Part{
		part("viejo", "c1", 10, 1, 7, "1", "1", 2*time.Hour),
		part("nuevo", "c1", 10, 1, 7, "1", "1", time.Hour),
	}
	s := reporting.Summarize(snapshot, nil, reporting.Options{TopCategories: 10, TopSelling: 1, Recent: 1})

	require.Len(t, s.TopSelling, 1)
	assert.Equal(t, "nuevo", s.TopSelling[0].ID)
}

func TestSummarize_FotoVacia(t *testing.T) {
	s := reporting.Summarize(nil, nil, reporting.DefaultOptions())
	assert.Zero(t, s.TotalActive)
	assert.True(t, s.Value.TotalCost.IsZero())
	assert.Empty(t, s.Categories)
}
