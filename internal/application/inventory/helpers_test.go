package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
)

// recordingPublisher guarda los eventos en el orden en que llegan.
type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) OnStockChanged(ev inventory.StockChangedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) OnAlert(ev inventory.AlertEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) snapshot() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.events...)
}

func (p *recordingPublisher) alerts() []inventory.AlertEvent {
	var out []inventory.AlertEvent
	for _, e := range p.snapshot() {
		if a, ok := e.(inventory.AlertEvent); ok {
			out = append(out, a)
		}
	}
	return out
}

func seedPart(t *testing.T, store *memory.Store, qty, minLevel int64) *entity.Part {
	t.Helper()
	now := time.Now()
	p := &entity.Part{
		ID:              uuid.New().String(),
		PartNumber:      "PN-" + uuid.NewString()[:8],
		Name:            "Pastilla de freno",
		Brand:           "Bosch",
		CategoryID:      "frenos",
		CostPrice:       decimal.NewFromInt(20),
		SellingPrice:    decimal.NewFromInt(35),
		Quantity:        qty,
		MinStockLevel:   minLevel,
		ReorderQuantity: entity.DefaultReorderQuantity,
		IsActive:        true,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, store.Parts().Create(context.Background(), p))
	return p
}
