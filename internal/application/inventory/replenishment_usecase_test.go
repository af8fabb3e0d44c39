package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
)

func TestGenerateReplenishmentList(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedPart(t, store, 50, 5) // en stock, no aparece
	low := seedPart(t, store, 3, 5)
	out := seedPart(t, store, 0, 20)
	edge := seedPart(t, store, 3, 8)

	list, err := appinv.NewReplenishmentUseCase(store.Parts()).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, out.ID, list[0].PartID, "agotado primero")
	assert.Equal(t, "out_of_stock", list[0].StockStatus)
	assert.Equal(t, int64(21), list[0].SuggestedOrderQty, "déficit mayor que el lote de reorden")
	assert.True(t, decimal.NewFromInt(420).Equal(list[0].EstimatedOrderCost))

	// misma cantidad: primero el de mayor déficit
	assert.Equal(t, edge.ID, list[1].PartID)
	assert.Equal(t, low.ID, list[2].PartID)
	assert.Equal(t, int64(10), list[2].SuggestedOrderQty)

	for i, s := range list {
		assert.Equal(t, i+1, s.Priority)
	}
}

func TestGenerateReplenishmentList_SinBajoStock(t *testing.T) {
	store := memory.NewStore()
	seedPart(t, store, 50, 5)

	list, err := appinv.NewReplenishmentUseCase(store.Parts()).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
