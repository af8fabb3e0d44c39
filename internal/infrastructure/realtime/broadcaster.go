package realtime

import (
	"time"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	appinventory "github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/application/usecase"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
)

var (
	_ appinventory.EventPublisher = (*Broadcaster)(nil)
	_ usecase.PartEventPublisher  = (*Broadcaster)(nil)
)

// Broadcaster traduce eventos de dominio a publicaciones del hub:
// catálogo a ambos grupos, stock a todas las conexiones y alertas solo a operadores.
type Broadcaster struct {
	hub *Hub
	now func() time.Time
}

// NewBroadcaster construye el adaptador sobre el hub.
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub, now: time.Now}
}

// OnPartChanged publica part-update a operadores y consumidores.
func (b *Broadcaster) OnPartChanged(action string, part dto.PartResponse) {
	b.hub.PublishToGroups(Message{
		Event:  EventPartUpdate,
		Data:   PartUpdatePayload{Action: action, Part: part},
		SentAt: b.now(),
	}, GroupOperators, GroupConsumers)
}

// OnStockChanged publica stock-update a todas las conexiones.
func (b *Broadcaster) OnStockChanged(ev inventory.StockChangedEvent) {
	b.hub.PublishToAll(Message{
		Event:  EventStockUpdate,
		Data:   newStockUpdatePayload(ev),
		SentAt: b.now(),
	})
}

// OnAlert publica low-stock-alert solo a operadores.
func (b *Broadcaster) OnAlert(ev inventory.AlertEvent) {
	b.hub.PublishToGroups(Message{
		Event:  EventLowStockAlert,
		Data:   newLowStockAlertPayload(ev),
		SentAt: b.now(),
	}, GroupOperators)
}
