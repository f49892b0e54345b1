// Package notify turns bus events into human-readable notifications for the
// rendering layer. The engine's optimistic policies swallow remote failures;
// this is where those failures become visible to the user.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmcgann/stockdeck/internal/event"
)

// Notification is one displayable message.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Center subscribes to the bus and retains a bounded history of
// notifications, newest first.
type Center struct {
	mu       sync.Mutex
	entries  []Notification
	capacity int
	now      func() time.Time
}

// NewCenter creates a center retaining up to capacity notifications and
// subscribes it to the relevant bus events. A capacity below 1 falls back to
// DefaultCapacity.
func NewCenter(bus event.Bus, capacity int) *Center {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	c := &Center{capacity: capacity, now: time.Now}

	bus.Subscribe(event.RecordCreatedLocal, c.onMutation(LevelWarning, MsgFmtCreatedLocal))
	bus.Subscribe(event.MutationRetained, c.onMutation(LevelWarning, MsgFmtUpdateRetained))
	bus.Subscribe(event.DeleteAborted, c.onMutation(LevelError, MsgFmtDeleteAborted))
	bus.Subscribe(event.TransferCommitted, c.onTransfer)
	bus.Subscribe(event.TransferFailedRemote, c.onTransfer)
	bus.Subscribe(event.RefreshFailed, c.onRefreshFailed)
	bus.Subscribe(event.WarehouseAtRisk, c.onAtRisk)
	return c
}

// Notifications returns the retained history, newest first.
func (c *Center) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// Clear drops the retained history.
func (c *Center) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
}

func (c *Center) push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]Notification{{Level: level, Message: message, At: c.now()}}, c.entries...)
	if len(c.entries) > c.capacity {
		c.entries = c.entries[:c.capacity]
	}
}

func (c *Center) onMutation(level Level, format string) event.Handler {
	return func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.MutationPayloadV1)
		if !ok {
			return fmt.Errorf("unexpected payload for %s: %T", e.Type, e.Payload)
		}
		subject := payload.Name
		if subject == "" {
			subject = payload.ID
		}
		c.push(level, fmt.Sprintf(format, subject))
		return nil
	}
}

func (c *Center) onTransfer(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.TransferPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", e.Type, e.Payload)
	}
	if e.Type == event.TransferCommitted {
		c.push(LevelInfo, fmt.Sprintf(MsgFmtTransferDone, payload.Quantity, payload.ToWarehouseID))
	} else {
		c.push(LevelWarning, fmt.Sprintf(MsgFmtTransferFailed, payload.Quantity, payload.Error))
	}
	return nil
}

func (c *Center) onRefreshFailed(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.RefreshFailedPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", e.Type, e.Payload)
	}
	c.push(LevelError, fmt.Sprintf(MsgFmtRefreshFailed, payload.Collection))
	return nil
}

func (c *Center) onAtRisk(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.WarehouseAtRiskPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", e.Type, e.Payload)
	}
	c.push(LevelWarning, fmt.Sprintf(MsgFmtAtRisk, payload.Name, payload.Percent))
	return nil
}
