package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
)

// Valores por defecto de inventario para un repuesto nuevo.
const (
	DefaultMinStockLevel   int64 = 5
	DefaultReorderQuantity int64 = 10
)

// Part representa un repuesto del catálogo.
// El estado de stock NO se persiste: se deriva de (Quantity, MinStockLevel) en cada lectura.
type Part struct {
	ID              string
	PartNumber      string // único, inmutable, siempre en mayúsculas
	Name            string
	Brand           string
	CategoryID      string
	Description     string
	CostPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	Discount        decimal.Decimal // porcentaje 0-100
	TaxPercentage   decimal.Decimal
	Quantity        int64 // único campo que modifica el motor de stock
	MinStockLevel   int64 // umbral de reorden configurado por un operador
	ReorderQuantity int64
	Tags            []string
	SKU             string
	Barcode         string
	IsActive        bool
	IsFeatured      bool
	Views           int64
	SalesCount      int64
	Version         int64 // token de concurrencia optimista, +1 en cada escritura
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NormalizePartNumber aplica la forma canónica del número de parte.
func NormalizePartNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// StockStatus recalcula el estado de stock. Nunca se cachea entre mutaciones.
func (p *Part) StockStatus() inventory.StockStatus {
	return inventory.Classify(p.Quantity, p.MinStockLevel)
}

// FinalPrice precio de venta con el descuento aplicado.
func (p *Part) FinalPrice() decimal.Decimal {
	if p.Discount.GreaterThan(decimal.Zero) {
		return p.SellingPrice.Sub(p.SellingPrice.Mul(p.Discount).Div(decimal.NewFromInt(100)))
	}
	return p.SellingPrice
}

// ProfitMargin margen porcentual sobre el costo (0 si el costo es 0).
func (p *Part) ProfitMargin() decimal.Decimal {
	if !p.CostPrice.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.CostPrice).Div(p.CostPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// Subject datos del repuesto que viajan en eventos de stock y alertas.
func (p *Part) Subject() inventory.Subject {
	return inventory.Subject{
		PartID:        p.ID,
		PartNumber:    p.PartNumber,
		Name:          p.Name,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
	}
}
