package inventory

import "time"

// Subject identifica el repuesto y su stock en el momento del evento.
type Subject struct {
	PartID        string
	PartNumber    string
	Name          string
	Quantity      int64
	MinStockLevel int64
}

// AlertEvent alerta de stock bajo/agotado. Efímera: sin cola de reintentos ni persistencia.
type AlertEvent struct {
	Subject
	Status      StockStatus
	TriggeredAt time.Time
}

// IsDegradingCrossing es verdadero solo cuando el estado nuevo es low_stock u out_of_stock
// y distinto del anterior (disparo por flanco). Las recuperaciones no alertan.
func IsDegradingCrossing(oldStatus, newStatus StockStatus) bool {
	if newStatus != StatusLowStock && newStatus != StatusOutOfStock {
		return false
	}
	return newStatus != oldStatus
}

// EvaluateTransition devuelve la alerta correspondiente a la transición, si la hay.
func EvaluateTransition(oldStatus, newStatus StockStatus, subject Subject, at time.Time) (AlertEvent, bool) {
	if !IsDegradingCrossing(oldStatus, newStatus) {
		return AlertEvent{}, false
	}
	return AlertEvent{Subject: subject, Status: newStatus, TriggeredAt: at}, true
}
