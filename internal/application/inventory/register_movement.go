package inventory

import (
	"context"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
)

// MutateStockFromRequest adapta el request HTTP al caso de uso MutateStock(ctx, StockChangeInput).
// Usar desde handlers HTTP o desde otros casos de uso que tengan partID, actorID y dto.UpdateStockRequest.
func (e *StockEngine) MutateStockFromRequest(ctx context.Context, partID, actorID string, in dto.UpdateStockRequest) (*dto.StockUpdateResponse, error) {
	op, err := inventory.ParseOperation(in.Operation)
	if err != nil {
		return nil, err
	}
	qty, err := in.QuantityValue()
	if err != nil {
		return nil, err
	}
	res, err := e.MutateStock(ctx, StockChangeInput{
		PartID:    partID,
		Quantity:  qty,
		Operation: op,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockUpdateResponse{
		PartID:           res.PartID,
		PartNumber:       res.PartNumber,
		Name:             res.Name,
		PreviousQuantity: res.PreviousQuantity,
		Quantity:         res.Quantity,
		StockStatus:      string(res.Status),
		AlertTriggered:   res.Alert != nil,
	}, nil
}
