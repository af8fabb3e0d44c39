// Package inventory contiene las reglas puras del motor de stock: clasificación,
// aplicación de operaciones de cantidad y detección de cruces de umbral.
package inventory

// StockStatus estado derivado de (cantidad, stock mínimo). Nunca se persiste.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// Classify mapea (quantity, minStockLevel) a un estado de stock.
// quantity == 0 se evalúa primero: tiene prioridad aunque minStockLevel también sea 0.
func Classify(quantity, minStockLevel int64) StockStatus {
	if quantity <= 0 {
		return StatusOutOfStock
	}
	if quantity <= minStockLevel {
		return StatusLowStock
	}
	return StatusInStock
}

// Valid indica si s es uno de los tres estados conocidos.
func (s StockStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// Severity ordena los estados de mejor (0) a peor (2).
func (s StockStatus) Severity() int {
	switch s {
	case StatusLowStock:
		return 1
	case StatusOutOfStock:
		return 2
	default:
		return 0
	}
}
