package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/v1/dashboard/summary.
type DashboardSummaryDTO struct {
	Summary              StockSummaryDTO    `json:"summary"`
	CategoryDistribution []CategoryValueDTO `json:"category_distribution"`
	TopSellingParts      []DashboardPartDTO `json:"top_selling_parts"`
	RecentParts          []DashboardPartDTO `json:"recent_parts"`
	GeneratedAt          time.Time          `json:"generated_at"`
}

// StockSummaryDTO conteos por estado y valorización.
type StockSummaryDTO struct {
	TotalParts     int               `json:"total_parts"`
	OutOfStock     int               `json:"out_of_stock"`
	LowStock       int               `json:"low_stock"`
	InStock        int               `json:"in_stock"`
	InventoryValue InventoryValueDTO `json:"inventory_value"`
}

// InventoryValueDTO valor del inventario a costo y a precio de venta.
type InventoryValueDTO struct {
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalSelling decimal.Decimal `json:"total_selling"`
}

// CategoryValueDTO conteo y valor por categoría.
type CategoryValueDTO struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// DashboardPartDTO vista ligera de un repuesto en los rankings.
type DashboardPartDTO struct {
	ID           string          `json:"id"`
	PartNumber   string          `json:"part_number"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	CategoryID   string          `json:"category_id"`
	SalesCount   int64           `json:"sales_count"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// InventoryStatsDTO respuesta de GET /api/v1/dashboard/stats.
type InventoryStatsDTO struct {
	TotalParts    int64           `json:"total_parts"`
	TotalQuantity int64           `json:"total_quantity"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	MaxPrice      decimal.Decimal `json:"max_price"`
	MinPrice      decimal.Decimal `json:"min_price"`
	TotalViews    int64           `json:"total_views"`
	TotalSales    int64           `json:"total_sales"`
}
