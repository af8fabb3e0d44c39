package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartRequest entrada para crear un repuesto.
type CreatePartRequest struct {
	PartNumber      string          `json:"part_number" validate:"required"`
	Name            string          `json:"name" validate:"required,min=3,max=200"`
	Brand           string          `json:"brand" validate:"required"`
	CategoryID      string          `json:"category_id" validate:"required"`
	Description     string          `json:"description" validate:"max=2000"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Discount        decimal.Decimal `json:"discount"`
	TaxPercentage   decimal.Decimal `json:"tax_percentage"`
	Quantity        int64           `json:"quantity"`
	MinStockLevel   *int64          `json:"min_stock_level"`
	ReorderQuantity *int64          `json:"reorder_quantity"`
	Tags            []string        `json:"tags"`
	SKU             string          `json:"sku"`
	Barcode         string          `json:"barcode"`
	IsFeatured      bool            `json:"is_featured"`
}

// UpdatePartRequest entrada para actualizar un repuesto. El número de parte es inmutable
// y la cantidad solo cambia vía PATCH /parts/:id/stock.
type UpdatePartRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=3,max=200"`
	Brand           *string          `json:"brand"`
	CategoryID      *string          `json:"category_id"`
	Description     *string          `json:"description"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	SellingPrice    *decimal.Decimal `json:"selling_price"`
	Discount        *decimal.Decimal `json:"discount"`
	TaxPercentage   *decimal.Decimal `json:"tax_percentage"`
	MinStockLevel   *int64           `json:"min_stock_level"`
	ReorderQuantity *int64           `json:"reorder_quantity"`
	Tags            []string         `json:"tags"`
	SKU             *string          `json:"sku"`
	Barcode         *string          `json:"barcode"`
	IsFeatured      *bool            `json:"is_featured"`
}

// PartResponse salida de un repuesto, con los campos derivados recalculados.
type PartResponse struct {
	ID              string          `json:"id"`
	PartNumber      string          `json:"part_number"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	CategoryID      string          `json:"category_id"`
	Description     string          `json:"description"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Discount        decimal.Decimal `json:"discount"`
	TaxPercentage   decimal.Decimal `json:"tax_percentage"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	ProfitMargin    decimal.Decimal `json:"profit_margin"`
	Quantity        int64           `json:"quantity"`
	MinStockLevel   int64           `json:"min_stock_level"`
	ReorderQuantity int64           `json:"reorder_quantity"`
	StockStatus     string          `json:"stock_status"`
	Tags            []string        `json:"tags"`
	SKU             string          `json:"sku"`
	Barcode         string          `json:"barcode"`
	IsActive        bool            `json:"is_active"`
	IsFeatured      bool            `json:"is_featured"`
	Views           int64           `json:"views"`
	SalesCount      int64           `json:"sales_count"`
	CreatedBy       string          `json:"created_by"`
	UpdatedBy       string          `json:"updated_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PartListResponse lista paginada de repuestos.
type PartListResponse struct {
	Items []PartResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PartListQuery filtros del listado público (query string).
type PartListQuery struct {
	PageRequest
	Category    string `query:"category"`
	Brand       string `query:"brand"`
	MinPrice    string `query:"min_price"`
	MaxPrice    string `query:"max_price"`
	Search      string `query:"search"`
	StockStatus string `query:"stock_status"`
	SortBy      string `query:"sort_by"`
	SortOrder   string `query:"sort_order"`
}
