package inventory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
)

func TestMutateStockFromRequest(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	engine := newEngine(store, nil)
	ctx := context.Background()

	out, err := engine.MutateStockFromRequest(ctx, part.ID, "admin-1", dto.UpdateStockRequest{
		Quantity: json.RawMessage(`"6"`), Operation: "subtract",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.Quantity)
	assert.Equal(t, "low_stock", out.StockStatus)
	assert.True(t, out.AlertTriggered)

	out, err = engine.MutateStockFromRequest(ctx, part.ID, "admin-1", dto.UpdateStockRequest{
		Quantity: json.RawMessage(`30`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), out.Quantity, "sin operación se aplica set")
	assert.False(t, out.AlertTriggered)
}

func TestMutateStockFromRequest_EntradaInvalida(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	engine := newEngine(store, nil)
	ctx := context.Background()

	cases := map[string]dto.UpdateStockRequest{
		"sin cantidad":  {},
		"no numérica":   {Quantity: json.RawMessage(`"diez"`)},
		"fraccionaria":  {Quantity: json.RawMessage(`2.5`)},
		"negativa":      {Quantity: json.RawMessage(`-1`)},
		"cantidad null": {Quantity: json.RawMessage(`null`)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := engine.MutateStockFromRequest(ctx, part.ID, "admin-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		})
	}

	_, err := engine.MutateStockFromRequest(ctx, part.ID, "admin-1", dto.UpdateStockRequest{
		Quantity: json.RawMessage(`1`), Operation: "divide",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}
