package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
	"github.com/jhoicas/autoparts-api/pkg/logger"
)

// DefaultMaxAttempts intentos ante ErrConcurrentModification antes de rendirse.
const DefaultMaxAttempts = 3

// StockChangeInput solicitud de mutación de stock (efímera; solo deja auditoría).
type StockChangeInput struct {
	PartID    string
	Quantity  int64
	Operation inventory.Operation
	ActorID   string
}

// StockChangeResult resultado de una mutación confirmada.
type StockChangeResult struct {
	PartID           string
	PartNumber       string
	Name             string
	PreviousQuantity int64
	Quantity         int64
	MinStockLevel    int64
	PreviousStatus   inventory.StockStatus
	Status           inventory.StockStatus
	Alert            *inventory.AlertEvent
}

// StockEngineConfig parámetros de reintento del motor.
type StockEngineConfig struct {
	MaxAttempts  int
	RetryBackoff time.Duration
}

// StockEngine aplica cambios de cantidad sobre un repuesto con exclusión por repuesto
// (PartLocks en proceso + bloqueo de fila/versión en el store) y publica los eventos.
type StockEngine struct {
	txRunner  TxRunner
	locks     *PartLocks
	publisher EventPublisher
	cfg       StockEngineConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewStockEngine construye el motor. publisher puede ser nil.
func NewStockEngine(txRunner TxRunner, publisher EventPublisher, cfg StockEngineConfig, log *logger.Logger) *StockEngine {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockEngine{
		txRunner:  txRunner,
		locks:     NewPartLocks(),
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// MutateStock valida la solicitud, serializa por repuesto, aplica la operación dentro de
// una transacción y, tras el commit, entrega el evento de stock y (si hubo cruce) la alerta.
func (e *StockEngine) MutateStock(ctx context.Context, in StockChangeInput) (*StockChangeResult, error) {
	if in.PartID == "" {
		return nil, domain.ErrPartNotFound
	}
	// Errores de validación: inmediatos, sin reintento.
	if err := inventory.ValidateStockChange(in.Quantity, in.Operation); err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(in.PartID)
	defer unlock()

	var (
		res *StockChangeResult
		err error
	)
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		res, err = e.apply(ctx, in)
		if !errors.Is(err, domain.ErrConcurrentModification) {
			break
		}
		e.log.Warn().
			Str("part_id", in.PartID).
			Int("attempt", attempt).
			Msg("conflicto de concurrencia en stock, reintentando")
		if attempt < e.cfg.MaxAttempts && e.cfg.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * e.cfg.RetryBackoff):
			}
		}
	}
	if err != nil {
		return nil, err
	}

	// Solo después del commit: ningún suscriptor ve un estado que luego se revierte.
	e.publisher.OnStockChanged(inventory.StockChangedEvent{
		Subject: inventory.Subject{
			PartID:        res.PartID,
			PartNumber:    res.PartNumber,
			Name:          res.Name,
			Quantity:      res.Quantity,
			MinStockLevel: res.MinStockLevel,
		},
		PreviousQuantity: res.PreviousQuantity,
		Status:           res.Status,
		PreviousStatus:   res.PreviousStatus,
		Operation:        in.Operation,
		UpdatedBy:        in.ActorID,
		At:               e.now(),
	})
	if res.Alert != nil {
		e.publisher.OnAlert(*res.Alert)
	}
	return res, nil
}

// apply un intento del ciclo leer-modificar-escribir.
func (e *StockEngine) apply(ctx context.Context, in StockChangeInput) (*StockChangeResult, error) {
	var res *StockChangeResult
	err := e.txRunner.Run(ctx, func(parts repository.PartRepository) error {
		part, err := parts.GetForUpdate(ctx, in.PartID)
		if err != nil {
			return err
		}
		if part == nil || !part.IsActive {
			return domain.ErrPartNotFound
		}

		oldQty := part.Quantity
		oldStatus := part.StockStatus()
		newQty, err := inventory.ApplyStockChange(oldQty, in.Quantity, in.Operation)
		if err != nil {
			return err
		}

		now := e.now()
		expected := part.Version
		part.Quantity = newQty
		part.UpdatedBy = in.ActorID
		part.UpdatedAt = now
		if err := parts.UpdateStock(ctx, part, expected); err != nil {
			return err
		}

		newStatus := part.StockStatus()
		res = &StockChangeResult{
			PartID:           part.ID,
			PartNumber:       part.PartNumber,
			Name:             part.Name,
			PreviousQuantity: oldQty,
			Quantity:         newQty,
			MinStockLevel:    part.MinStockLevel,
			PreviousStatus:   oldStatus,
			Status:           newStatus,
		}
		if alert, ok := inventory.EvaluateTransition(oldStatus, newStatus, part.Subject(), now); ok {
			res.Alert = &alert
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
