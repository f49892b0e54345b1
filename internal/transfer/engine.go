// Package transfer drives a quantity move of one inventory item between two
// warehouses. Each attempt walks a small state machine: a draft is opened and
// seeded from the item, validated against the local snapshot, applied
// optimistically through the store, and finally reconciled (or not) with the
// remote service. A rejected draft stays open so the caller can correct it.
package transfer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/event"
	"github.com/tmcgann/stockdeck/internal/gateway"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/metrics"
	"github.com/tmcgann/stockdeck/internal/store"
)

// Draft is a transfer being assembled by the user.
type Draft struct {
	InventoryID            string `json:"inventoryId"`
	SourceWarehouseID      string `json:"sourceWarehouseId"`
	DestinationWarehouseID string `json:"destinationWarehouseId"`
	Quantity               int    `json:"quantity"`
	StorageLocation        string `json:"storageLocation"`
}

// Engine validates and executes transfers against the store and the gateway.
type Engine struct {
	store *store.Store
	gw    gateway.API
	bus   event.Bus

	mu     sync.Mutex
	state  State
	draft  Draft
	reason error
	// last terminal outcome, kept after control returns to Idle
	lastOutcome State

	inflight sync.WaitGroup
}

// NewEngine creates an idle engine.
func NewEngine(st *store.Store, gw gateway.API, bus event.Bus) *Engine {
	return &Engine{store: st, gw: gw, bus: bus, state: StateIdle}
}

// Drain blocks until any in-flight remote leg has completed.
func (e *Engine) Drain() {
	e.inflight.Wait()
}

// State returns the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentDraft returns the draft being assembled. Meaningful in Open and
// Rejected; a rejected draft is preserved for correction.
func (e *Engine) CurrentDraft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// RejectionReason returns the validation error of the last rejection, or nil.
func (e *Engine) RejectionReason() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reason
}

// LastOutcome reports the terminal state of the most recently submitted
// transfer (Committed or FailedRemote), surviving the return to Idle.
func (e *Engine) LastOutcome() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastOutcome
}

// Open seeds a draft from the item: the destination defaults to the first
// warehouse in collection order whose id differs from the source, and the
// quantity to the item's holding capped at seedCap.
func (e *Engine) Open(ctx context.Context, item domain.InventoryItem, seedCap int) (Draft, error) {
	if _, ok := e.store.ItemByID(item.ID); !ok {
		return Draft{}, domain.ErrStaleReference
	}

	destination := ""
	for _, w := range e.store.Warehouses() {
		if w.ID != item.WarehouseID {
			destination = w.ID
			break
		}
	}

	quantity := item.Quantity
	if quantity > seedCap {
		quantity = seedCap
	}

	draft := Draft{
		InventoryID:            item.ID,
		SourceWarehouseID:      item.WarehouseID,
		DestinationWarehouseID: destination,
		Quantity:               quantity,
	}

	e.mu.Lock()
	e.state = StateOpen
	e.draft = draft
	e.reason = nil
	e.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgTransferOpened,
		"inventory_id", item.ID, "destination", destination, "quantity", quantity)
	return draft, nil
}

// Validate checks the draft against the local snapshot. The capacity check is
// advisory: it inspects the current destination holdings only and is not
// re-verified server-side here.
func (e *Engine) Validate(d Draft) error {
	if d.DestinationWarehouseID == "" || d.DestinationWarehouseID == d.SourceWarehouseID {
		return domain.ErrInvalidDestination
	}
	if d.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	dst, ok := e.store.WarehouseByID(d.DestinationWarehouseID)
	if ok && dst.MaximumCapacity != nil && *dst.MaximumCapacity > 0 {
		total := 0
		for _, it := range e.store.Items() {
			if it.WarehouseID == d.DestinationWarehouseID {
				total += it.Quantity
			}
		}
		if total+d.Quantity > *dst.MaximumCapacity {
			return domain.ErrCapacityExceeded
		}
	}
	return nil
}

// Submit validates the draft, applies the optimistic local split, and starts
// the remote leg. On validation failure the engine moves to Rejected with the
// draft preserved and local state untouched. The remote leg never rolls the
// split back: success triggers an authoritative inventory refresh, failure
// publishes a notification and keeps the optimistic state.
func (e *Engine) Submit(ctx context.Context, d Draft) error {
	log := logger.FromContext(ctx)

	e.mu.Lock()
	e.state = StateValidating
	e.draft = d
	e.mu.Unlock()

	if err := e.Validate(d); err != nil {
		e.mu.Lock()
		e.state = StateRejected
		e.reason = err
		e.mu.Unlock()

		metrics.TransfersRejected.WithLabelValues(reasonLabel(err)).Inc()
		log.Info(LogMsgTransferRejected, "inventory_id", d.InventoryID, "reason", err)
		return err
	}

	req := domain.TransferRequest{
		InventoryID:     d.InventoryID,
		FromWarehouseID: d.SourceWarehouseID,
		ToWarehouseID:   d.DestinationWarehouseID,
		Quantity:        d.Quantity,
		StorageLocation: d.StorageLocation,
	}

	e.mu.Lock()
	e.state = StateSubmitting
	e.mu.Unlock()

	if err := e.store.ApplyTransfer(req, time.Now()); err != nil {
		e.mu.Lock()
		e.state = StateIdle
		e.mu.Unlock()
		return err
	}

	bg := context.WithoutCancel(ctx)
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()

		if err := e.gw.Transfer(bg, req); err != nil {
			logger.FromContext(bg).Warn(LogMsgTransferFailedRemote,
				"inventory_id", req.InventoryID, "error", err)
			metrics.TransfersFailedRemote.Inc()
			_ = e.bus.Publish(bg, event.NewTransferFailedRemoteEvent(
				req.InventoryID, req.FromWarehouseID, req.ToWarehouseID, req.Quantity, err))
			e.settle(StateFailedRemote)
			return
		}

		// Server-side bookkeeping supersedes the local heuristic.
		_ = e.store.RefreshInventory(bg)
		e.store.CheckAtRisk(bg, req.ToWarehouseID)

		metrics.TransfersCommitted.Inc()
		_ = e.bus.Publish(bg, event.NewTransferCommittedEvent(
			req.InventoryID, req.FromWarehouseID, req.ToWarehouseID, req.Quantity))
		logger.FromContext(bg).Info(LogMsgTransferCommitted,
			"inventory_id", req.InventoryID, "to", req.ToWarehouseID, "quantity", req.Quantity)
		e.settle(StateCommitted)
	}()

	return nil
}

// settle records the terminal outcome and returns control to Idle.
func (e *Engine) settle(outcome State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastOutcome = outcome
	e.state = StateIdle
	e.draft = Draft{}
	e.reason = nil
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDestination):
		return ReasonInvalidDestination
	case errors.Is(err, domain.ErrInvalidQuantity):
		return ReasonInvalidQuantity
	case errors.Is(err, domain.ErrCapacityExceeded):
		return ReasonCapacityExceeded
	default:
		return ReasonUnknown
	}
}
