package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

// ReplenishmentUseCase genera el reporte de stock bajo: los repuestos en o bajo su stock
// mínimo, con la cantidad sugerida de pedido. Es la vía de recuperación de alertas perdidas:
// un suscriptor desconectado consulta este reporte al reconectar.
type ReplenishmentUseCase struct {
	partRepo repository.PartRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(partRepo repository.PartRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{partRepo: partRepo}
}

// GenerateReplenishmentList devuelve los repuestos bajo su umbral, del más al menos urgente:
// primero agotados, luego menor cantidad, luego mayor déficit respecto al mínimo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	parts, err := uc.partRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(parts))
	for _, p := range parts {
		status := p.StockStatus()
		// Pedir al menos ReorderQuantity y siempre lo suficiente para superar el mínimo.
		suggested := p.ReorderQuantity
		if deficit := p.MinStockLevel - p.Quantity + 1; deficit > suggested {
			suggested = deficit
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			PartID:             p.ID,
			PartNumber:         p.PartNumber,
			Name:               p.Name,
			Brand:              p.Brand,
			CategoryID:         p.CategoryID,
			Quantity:           p.Quantity,
			MinStockLevel:      p.MinStockLevel,
			ReorderQuantity:    p.ReorderQuantity,
			StockStatus:        string(status),
			SuggestedOrderQty:  suggested,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(suggested)),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return a.MinStockLevel-a.Quantity > b.MinStockLevel-b.Quantity
	})

	// 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
