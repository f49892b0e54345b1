package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event represents a notification emitted by the engine. Events are the
// non-blocking surface for failures the optimistic policies swallow: the
// mutation already happened locally by the time one of these fires.
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types
const (
	// RecordCreatedLocal fires when a create call failed and the optimistic
	// row was kept as a local-only record.
	RecordCreatedLocal Type = "record.created.local"

	// MutationRetained fires when an update failed remotely and the
	// optimistic local merge was kept.
	MutationRetained Type = "mutation.retained"

	// DeleteAborted fires when a delete intent reached the gateway and
	// failed; the local row is untouched.
	DeleteAborted Type = "delete.aborted"

	TransferCommitted    Type = "transfer.committed"
	TransferFailedRemote Type = "transfer.failed_remote"

	// RefreshFailed fires when a full list refresh could not reach the
	// remote service; the previous collections remain in place.
	RefreshFailed Type = "refresh.failed"

	// WarehouseAtRisk fires when a warehouse crosses the utilization
	// threshold after a mutation.
	WarehouseAtRisk Type = "warehouse.at_risk"
)

// Typed event payloads

// MutationPayloadV1 describes a mutation whose remote leg diverged from the
// local optimistic apply.
type MutationPayloadV1 struct {
	Kind   string `json:"kind"` // "warehouse" or "item"
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// TransferPayloadV1 is the typed payload for transfer outcome events
type TransferPayloadV1 struct {
	InventoryID     string `json:"inventory_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int    `json:"quantity"`
	Error           string `json:"error,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// RefreshFailedPayloadV1 is the typed payload for refresh failures
type RefreshFailedPayloadV1 struct {
	Collection string `json:"collection"` // "warehouses" or "inventory"
	Error      string `json:"error"`
}

// WarehouseAtRiskPayloadV1 is the typed payload for capacity threshold events
type WarehouseAtRiskPayloadV1 struct {
	WarehouseID string  `json:"warehouse_id"`
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
}

// Type-safe event constructors

// NewRecordCreatedLocalEvent records a create that fell back to a local-only row.
func NewRecordCreatedLocalEvent(kind, id, name, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RecordCreatedLocal,
		Payload: MutationPayloadV1{Kind: kind, ID: id, Name: name, Reason: reason},
	}
}

// NewMutationRetainedEvent records an update kept locally after a remote failure.
func NewMutationRetainedEvent(kind, id, name, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MutationRetained,
		Payload: MutationPayloadV1{Kind: kind, ID: id, Name: name, Reason: reason},
	}
}

// NewDeleteAbortedEvent records a delete whose remote leg failed.
func NewDeleteAbortedEvent(kind, id, name, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DeleteAborted,
		Payload: MutationPayloadV1{Kind: kind, ID: id, Name: name, Reason: reason},
	}
}

// NewTransferCommittedEvent creates a transfer success event
func NewTransferCommittedEvent(inventoryID, from, to string, quantity int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TransferCommitted,
		Payload: TransferPayloadV1{
			InventoryID:     inventoryID,
			FromWarehouseID: from,
			ToWarehouseID:   to,
			Quantity:        quantity,
			Timestamp:       time.Now().Unix(),
		},
	}
}

// NewTransferFailedRemoteEvent creates a transfer failure event. The local
// split is retained; the payload carries the remote error for display.
func NewTransferFailedRemoteEvent(inventoryID, from, to string, quantity int, err error) Event {
	payload := TransferPayloadV1{
		InventoryID:     inventoryID,
		FromWarehouseID: from,
		ToWarehouseID:   to,
		Quantity:        quantity,
		Timestamp:       time.Now().Unix(),
	}
	if err != nil {
		payload.Error = err.Error()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    TransferFailedRemote,
		Payload: payload,
	}
}

// NewRefreshFailedEvent creates a refresh failure event
func NewRefreshFailedEvent(collection string, err error) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RefreshFailed,
		Payload: RefreshFailedPayloadV1{Collection: collection, Error: err.Error()},
	}
}

// NewWarehouseAtRiskEvent creates a capacity threshold event
func NewWarehouseAtRiskEvent(warehouseID, name string, percent float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WarehouseAtRisk,
		Payload: WarehouseAtRiskPayloadV1{WarehouseID: warehouseID, Name: name, Percent: percent},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
