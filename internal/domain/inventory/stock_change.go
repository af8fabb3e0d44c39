package inventory

import (
	"math"
	"strings"

	"github.com/jhoicas/autoparts-api/internal/domain"
)

// Operation semántica explícita de un cambio de stock.
type Operation string

const (
	OpSet      Operation = "set"
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
)

// ParseOperation normaliza la operación recibida. Vacío equivale a "set".
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if op == "" {
		return OpSet, nil
	}
	switch op {
	case OpSet, OpAdd, OpSubtract:
		return op, nil
	}
	return "", domain.ErrUnsupportedOperation
}

// ValidateStockChange valida operación y cantidad sin conocer el stock actual.
func ValidateStockChange(requested int64, op Operation) error {
	switch op {
	case OpSet, OpAdd, OpSubtract:
	default:
		return domain.ErrUnsupportedOperation
	}
	if requested < 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ApplyStockChange calcula la nueva cantidad a partir de la actual.
//   - set: requested
//   - add: current + requested
//   - subtract: max(0, current - requested); nunca falla por quedar negativo, recorta a 0
func ApplyStockChange(current, requested int64, op Operation) (int64, error) {
	if err := ValidateStockChange(requested, op); err != nil {
		return 0, err
	}
	switch op {
	case OpAdd:
		if current > math.MaxInt64-requested {
			return 0, domain.ErrInvalidQuantity
		}
		return current + requested, nil
	case OpSubtract:
		if requested >= current {
			return 0, nil
		}
		return current - requested, nil
	default:
		return requested, nil
	}
}
