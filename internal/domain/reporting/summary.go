// Package reporting calcula resúmenes de inventario sobre una foto (snapshot) de repuestos.
// Es cálculo puro de lectura: no muta, no bloquea y puede recalcularse cuantas veces se quiera.
package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
)

// Options tamaños de los rankings del resumen.
type Options struct {
	TopCategories int
	TopSelling    int
	Recent        int
}

// DefaultOptions valores del dashboard de administración.
func DefaultOptions() Options {
	return Options{TopCategories: 10, TopSelling: 5, Recent: 5}
}

// InventoryValue valorización ponderada por cantidad.
type InventoryValue struct {
	TotalCost    decimal.Decimal
	TotalSelling decimal.Decimal
}

// CategoryBreakdown conteo y valor (precio de venta × cantidad) de una categoría.
type CategoryBreakdown struct {
	CategoryID string
	Name       string
	Count      int
	TotalValue decimal.Decimal
}

// PartRef vista ligera de un repuesto para los rankings.
type PartRef struct {
	ID           string
	PartNumber   string
	Name         string
	Brand        string
	CategoryID   string
	SalesCount   int64
	SellingPrice decimal.Decimal
	CreatedAt    time.Time
}

// Summary resultado de Summarize.
type Summary struct {
	TotalActive int
	OutOfStock  int
	LowStock    int
	InStock     int // siempre TotalActive - OutOfStock - LowStock
	Value       InventoryValue
	Categories  []CategoryBreakdown
	TopSelling  []PartRef
	Recent      []PartRef
}

// Summarize calcula el resumen sobre la foto dada. Los repuestos inactivos se ignoran.
// categories debe venir en orden de creación: ese orden desempata el ranking por categoría.
func Summarize(snapshot []entity.Part, categories []entity.Category, opts Options) Summary {
	s := Summary{
		Value: InventoryValue{TotalCost: decimal.Zero, TotalSelling: decimal.Zero},
	}

	rank := make(map[string]int, len(categories))
	names := make(map[string]string, len(categories))
	for i, c := range categories {
		rank[c.ID] = i
		names[c.ID] = c.Name
	}

	byCategory := make(map[string]*CategoryBreakdown)
	var order []string // categorías desconocidas en orden de aparición
	active := make([]entity.Part, 0, len(snapshot))

	for i := range snapshot {
		p := snapshot[i]
		if !p.IsActive {
			continue
		}
		active = append(active, p)
		s.TotalActive++

		switch p.StockStatus() {
		case inventory.StatusOutOfStock:
			s.OutOfStock++
		case inventory.StatusLowStock:
			s.LowStock++
		}

		qty := decimal.NewFromInt(p.Quantity)
		s.Value.TotalCost = s.Value.TotalCost.Add(p.CostPrice.Mul(qty))
		selling := p.SellingPrice.Mul(qty)
		s.Value.TotalSelling = s.Value.TotalSelling.Add(selling)

		b, ok := byCategory[p.CategoryID]
		if !ok {
			b = &CategoryBreakdown{CategoryID: p.CategoryID, Name: names[p.CategoryID], TotalValue: decimal.Zero}
			byCategory[p.CategoryID] = b
			order = append(order, p.CategoryID)
		}
		b.Count++
		b.TotalValue = b.TotalValue.Add(selling)
	}
	s.InStock = s.TotalActive - s.OutOfStock - s.LowStock

	// posición de desempate: primero categorías conocidas por creación, luego el resto
	tiebreak := make(map[string]int, len(order))
	unknown := 0
	for _, id := range order {
		if r, ok := rank[id]; ok {
			tiebreak[id] = r
			continue
		}
		tiebreak[id] = len(categories) + unknown
		unknown++
	}
	breakdown := make([]CategoryBreakdown, 0, len(order))
	for _, id := range order {
		breakdown = append(breakdown, *byCategory[id])
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return tiebreak[breakdown[i].CategoryID] < tiebreak[breakdown[j].CategoryID]
	})
	s.Categories = truncate(breakdown, opts.TopCategories)

	bySales := append([]entity.Part(nil), active...)
	sort.SliceStable(bySales, func(i, j int) bool {
		if bySales[i].SalesCount != bySales[j].SalesCount {
			return bySales[i].SalesCount > bySales[j].SalesCount
		}
		return bySales[i].CreatedAt.After(bySales[j].CreatedAt)
	})
	s.TopSelling = refs(truncate(bySales, opts.TopSelling))

	byCreation := append([]entity.Part(nil), active...)
	sort.SliceStable(byCreation, func(i, j int) bool {
		return byCreation[i].CreatedAt.After(byCreation[j].CreatedAt)
	})
	s.Recent = refs(truncate(byCreation, opts.Recent))

	return s
}

func truncate[T any](list []T, n int) []T {
	if n >= 0 && len(list) > n {
		return list[:n]
	}
	return list
}

func refs(parts []entity.Part) []PartRef {
	out := make([]PartRef, 0, len(parts))
	for _, p := range parts {
		out = append(out, PartRef{
			ID:           p.ID,
			PartNumber:   p.PartNumber,
			Name:         p.Name,
			Brand:        p.Brand,
			CategoryID:   p.CategoryID,
			SalesCount:   p.SalesCount,
			SellingPrice: p.SellingPrice,
			CreatedAt:    p.CreatedAt,
		})
	}
	return out
}
