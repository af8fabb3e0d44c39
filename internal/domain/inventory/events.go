package inventory

import "time"

// StockChangedEvent se emite tras cada mutación de cantidad confirmada.
type StockChangedEvent struct {
	Subject
	PreviousQuantity int64
	Status           StockStatus
	PreviousStatus   StockStatus
	Operation        Operation
	UpdatedBy        string
	At               time.Time
}
