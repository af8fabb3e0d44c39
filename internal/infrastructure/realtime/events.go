package realtime

import (
	"fmt"
	"time"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
)

// Nombres de evento enviados a los clientes.
const (
	EventPartUpdate    = "part-update"
	EventStockUpdate   = "stock-update"
	EventLowStockAlert = "low-stock-alert"
	EventJoined        = "joined"
	EventLeft          = "left"
	EventError         = "error"
)

// PartUpdatePayload cambio de catálogo (alta, edición o baja).
type PartUpdatePayload struct {
	Action string           `json:"action"`
	Part   dto.PartResponse `json:"part"`
}

// StockUpdatePayload cambio de cantidad confirmado.
type StockUpdatePayload struct {
	PartID           string    `json:"part_id"`
	PartNumber       string    `json:"part_number"`
	Name             string    `json:"name"`
	Quantity         int64     `json:"quantity"`
	PreviousQuantity int64     `json:"previous_quantity"`
	MinStockLevel    int64     `json:"min_stock_level"`
	StockStatus      string    `json:"stock_status"`
	PreviousStatus   string    `json:"previous_status"`
	Operation        string    `json:"operation"`
	UpdatedBy        string    `json:"updated_by,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LowStockAlertPayload alerta de cruce a stock bajo o agotado.
type LowStockAlertPayload struct {
	PartID        string    `json:"part_id"`
	PartNumber    string    `json:"part_number"`
	Name          string    `json:"name"`
	Quantity      int64     `json:"quantity"`
	MinStockLevel int64     `json:"min_stock_level"`
	StockStatus   string    `json:"stock_status"`
	Message       string    `json:"message"`
	TriggeredAt   time.Time `json:"triggered_at"`
}

// MembershipPayload respuesta a join/leave.
type MembershipPayload struct {
	Group  string   `json:"group"`
	Groups []string `json:"groups"`
}

// ErrorPayload respuesta ante un frame inválido o no autorizado.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newStockUpdatePayload(ev inventory.StockChangedEvent) StockUpdatePayload {
	return StockUpdatePayload{
		PartID:           ev.PartID,
		PartNumber:       ev.PartNumber,
		Name:             ev.Name,
		Quantity:         ev.Quantity,
		PreviousQuantity: ev.PreviousQuantity,
		MinStockLevel:    ev.MinStockLevel,
		StockStatus:      string(ev.Status),
		PreviousStatus:   string(ev.PreviousStatus),
		Operation:        string(ev.Operation),
		UpdatedBy:        ev.UpdatedBy,
		UpdatedAt:        ev.At,
	}
}

func newLowStockAlertPayload(ev inventory.AlertEvent) LowStockAlertPayload {
	msg := fmt.Sprintf("%s tiene stock bajo (%d de mínimo %d)", ev.Name, ev.Quantity, ev.MinStockLevel)
	if ev.Status == inventory.StatusOutOfStock {
		msg = fmt.Sprintf("%s está agotado", ev.Name)
	}
	return LowStockAlertPayload{
		PartID:        ev.PartID,
		PartNumber:    ev.PartNumber,
		Name:          ev.Name,
		Quantity:      ev.Quantity,
		MinStockLevel: ev.MinStockLevel,
		StockStatus:   string(ev.Status),
		Message:       msg,
		TriggeredAt:   ev.TriggeredAt,
	}
}
