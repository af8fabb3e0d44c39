package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
)

func newEngine(store *memory.Store, pub appinv.EventPublisher) *appinv.StockEngine {
	return appinv.NewStockEngine(store.TxRunner(), pub, appinv.StockEngineConfig{}, nil)
}

func TestMutateStock_RestaCruzaUmbralYAlerta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	pub := &recordingPublisher{}

	res, err := newEngine(store, pub).MutateStock(ctx, appinv.StockChangeInput{
		PartID: part.ID, Quantity: 5, Operation: inventory.OpSubtract, ActorID: "admin-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.PreviousQuantity)
	assert.Equal(t, int64(5), res.Quantity)
	assert.Equal(t, inventory.StatusInStock, res.PreviousStatus)
	assert.Equal(t, inventory.StatusLowStock, res.Status)
	require.NotNil(t, res.Alert)

	events := pub.snapshot()
	require.Len(t, events, 2)
	changed, ok := events[0].(inventory.StockChangedEvent)
	require.True(t, ok, "el evento de stock va antes que la alerta")
	assert.Equal(t, int64(5), changed.Quantity)
	assert.Equal(t, "admin-1", changed.UpdatedBy)
	alert, ok := events[1].(inventory.AlertEvent)
	require.True(t, ok)
	assert.Equal(t, inventory.StatusLowStock, alert.Status)
	assert.Equal(t, part.ID, alert.PartID)

	stored, err := store.Parts().GetByID(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Quantity)
	assert.Equal(t, "admin-1", stored.UpdatedBy)
	assert.Equal(t, part.Version+1, stored.Version)
}

func TestMutateStock_SecuenciaBajoAgotadoReposicion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	pub := &recordingPublisher{}
	engine := newEngine(store, pub)

	steps := []struct {
		name      string
		op        inventory.Operation
		qty       int64
		wantQty   int64
		want      inventory.StockStatus
		wantAlert bool
	}{
		{"resta 6 queda en bajo", inventory.OpSubtract, 6, 4, inventory.StatusLowStock, true},
		{"resta 10 recorta a cero", inventory.OpSubtract, 10, 0, inventory.StatusOutOfStock, true},
		{"suma 20 repone sin alerta", inventory.OpAdd, 20, 20, inventory.StatusInStock, false},
	}
	for _, s := range steps {
		res, err := engine.MutateStock(ctx, appinv.StockChangeInput{PartID: part.ID, Quantity: s.qty, Operation: s.op})
		require.NoError(t, err, s.name)
		assert.Equal(t, s.wantQty, res.Quantity, s.name)
		assert.Equal(t, s.want, res.Status, s.name)
		assert.Equal(t, s.wantAlert, res.Alert != nil, s.name)
	}

	alerts := pub.alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, inventory.StatusLowStock, alerts[0].Status)
	assert.Equal(t, inventory.StatusOutOfStock, alerts[1].Status)
	assert.Len(t, pub.snapshot(), 5, "tres eventos de stock y dos alertas")
}

func TestMutateStock_RestaMayorQueStockRecortaACero(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 3, 5)
	pub := &recordingPublisher{}

	res, err := newEngine(store, pub).MutateStock(context.Background(), appinv.StockChangeInput{
		PartID: part.ID, Quantity: 10, Operation: inventory.OpSubtract,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Quantity)
	assert.Equal(t, inventory.StatusOutOfStock, res.Status)

	alerts := pub.alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, inventory.StatusOutOfStock, alerts[0].Status)
}

func TestMutateStock_SetIdempotenteSinSegundaAlerta(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 20, 5)
	pub := &recordingPublisher{}
	engine := newEngine(store, pub)

	for i := 0; i < 2; i++ {
		res, err := engine.MutateStock(context.Background(), appinv.StockChangeInput{
			PartID: part.ID, Quantity: 2, Operation: inventory.OpSet,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Quantity)
	}
	assert.Len(t, pub.alerts(), 1, "low -> low no vuelve a alertar")
	assert.Len(t, pub.snapshot(), 3, "dos eventos de stock y una alerta")
}

func TestMutateStock_RecuperacionNoAlerta(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 0, 5)
	pub := &recordingPublisher{}

	res, err := newEngine(store, pub).MutateStock(context.Background(), appinv.StockChangeInput{
		PartID: part.ID, Quantity: 50, Operation: inventory.OpAdd,
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusInStock, res.Status)
	assert.Nil(t, res.Alert)
	assert.Empty(t, pub.alerts())
}

func TestMutateStock_Errores(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	pub := &recordingPublisher{}
	engine := newEngine(store, pub)

	_, err := engine.MutateStock(ctx, appinv.StockChangeInput{PartID: "no-existe", Quantity: 1, Operation: inventory.OpAdd})
	assert.ErrorIs(t, err, domain.ErrPartNotFound)

	_, err = engine.MutateStock(ctx, appinv.StockChangeInput{PartID: part.ID, Quantity: -3, Operation: inventory.OpSet})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = engine.MutateStock(ctx, appinv.StockChangeInput{PartID: part.ID, Quantity: 1, Operation: "multiply"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)

	require.NoError(t, store.Parts().SoftDelete(ctx, part.ID, "admin"))
	_, err = engine.MutateStock(ctx, appinv.StockChangeInput{PartID: part.ID, Quantity: 1, Operation: inventory.OpAdd})
	assert.ErrorIs(t, err, domain.ErrPartNotFound, "un repuesto inactivo no se muta")

	assert.Empty(t, pub.snapshot(), "las mutaciones fallidas no publican")
}

func TestMutateStock_RestasConcurrentesTerminanEnCero(t *testing.T) {
	const workers = 25
	store := memory.NewStore()
	part := seedPart(t, store, workers, 5)
	pub := &recordingPublisher{}
	engine := newEngine(store, pub)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.MutateStock(context.Background(), appinv.StockChangeInput{
				PartID: part.ID, Quantity: 1, Operation: inventory.OpSubtract,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := store.Parts().GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Quantity)

	// in -> low una vez y low -> out una vez, sin importar el intercalado
	alerts := pub.alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, inventory.StatusLowStock, alerts[0].Status)
	assert.Equal(t, inventory.StatusOutOfStock, alerts[1].Status)
}

// conflictingRunner simula escrituras concurrentes fuera del proceso: las primeras
// `conflicts` llamadas a UpdateStock fallan con ErrConcurrentModification.
type conflictingRunner struct {
	store     *memory.Store
	conflicts int32
	calls     atomic.Int32
}

type conflictingRepo struct {
	repository.PartRepository
	r *conflictingRunner
}

func (c conflictingRepo) UpdateStock(ctx context.Context, part *entity.Part, expected int64) error {
	if c.r.calls.Add(1) <= c.r.conflicts {
		return domain.ErrConcurrentModification
	}
	return c.PartRepository.UpdateStock(ctx, part, expected)
}

func (r *conflictingRunner) Run(ctx context.Context, fn func(parts repository.PartRepository) error) error {
	return r.store.TxRunner().Run(ctx, func(parts repository.PartRepository) error {
		return fn(conflictingRepo{PartRepository: parts, r: r})
	})
}

func TestMutateStock_ReintentaAnteConflicto(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	runner := &conflictingRunner{store: store, conflicts: 2}
	engine := appinv.NewStockEngine(runner, nil, appinv.StockEngineConfig{MaxAttempts: 3}, nil)

	res, err := engine.MutateStock(context.Background(), appinv.StockChangeInput{
		PartID: part.ID, Quantity: 4, Operation: inventory.OpAdd,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(14), res.Quantity)
	assert.Equal(t, int32(3), runner.calls.Load())
}

func TestMutateStock_AgotaReintentos(t *testing.T) {
	store := memory.NewStore()
	part := seedPart(t, store, 10, 5)
	runner := &conflictingRunner{store: store, conflicts: 10}
	pub := &recordingPublisher{}
	engine := appinv.NewStockEngine(runner, pub, appinv.StockEngineConfig{MaxAttempts: 2}, nil)

	_, err := engine.MutateStock(context.Background(), appinv.StockChangeInput{
		PartID: part.ID, Quantity: 4, Operation: inventory.OpAdd,
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, int32(2), runner.calls.Load())
	assert.Empty(t, pub.snapshot())

	stored, _ := store.Parts().GetByID(context.Background(), part.ID)
	assert.Equal(t, int64(10), stored.Quantity)
}
