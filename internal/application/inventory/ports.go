package inventory

import (
	"context"

	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio
// de repuestos atado a esa tx. Garantiza atomicidad del ciclo leer-modificar-escribir.
type TxRunner interface {
	Run(ctx context.Context, fn func(parts repository.PartRepository) error) error
}

// EventPublisher recibe los eventos del motor una vez confirmada la mutación.
// Las implementaciones no deben bloquear ni fallar la mutación (entrega best-effort).
type EventPublisher interface {
	OnStockChanged(ev inventory.StockChangedEvent)
	OnAlert(ev inventory.AlertEvent)
}

// NopPublisher descarta todos los eventos.
type NopPublisher struct{}

func (NopPublisher) OnStockChanged(inventory.StockChangedEvent) {}
func (NopPublisher) OnAlert(inventory.AlertEvent)               {}
