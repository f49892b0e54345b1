// Package store owns the canonical in-memory collections of warehouses and
// inventory items.
//
// All mutations flow through intent methods implementing two policies:
//
//   - Creates and updates apply locally first and are retained even when the
//     remote call fails ("never lose user input"); failures surface as logged
//     warnings and bus events, never as rollbacks.
//   - Deletes are the one non-optimistic mutation: an erroneous optimistic
//     delete is irreversible from the user's point of view, so the local row
//     goes away only after the gateway confirms.
//
// Every other component reads snapshot copies and submits intents back here;
// nothing else mutates the collections.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tmcgann/stockdeck/internal/capacity"
	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/event"
	"github.com/tmcgann/stockdeck/internal/gateway"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/metrics"
)

// Store holds the canonical collections and applies intents against them.
type Store struct {
	mu         sync.RWMutex
	warehouses []domain.Warehouse
	items      []domain.InventoryItem

	gw  gateway.API
	bus event.Bus

	// inflight tracks gateway reconciliation goroutines so shutdown (and
	// tests) can wait for them. Responses for different ids may land in any
	// order; per id, the last response to arrive wins.
	inflight sync.WaitGroup
}

// New creates an empty store backed by the given gateway.
func New(gw gateway.API, bus event.Bus) *Store {
	return &Store{gw: gw, bus: bus}
}

// Drain blocks until all in-flight gateway reconciliations have completed.
func (s *Store) Drain() {
	s.inflight.Wait()
}

// Refresh replaces both collections with the server's current state. On
// failure the previous collection stays in place; the error is reported to
// the caller and on the bus, never raised to the rendering layer.
func (s *Store) Refresh(ctx context.Context) error {
	log := logger.FromContext(ctx)

	warehouses, err := s.gw.ListWarehouses(ctx)
	if err != nil {
		log.Warn(LogMsgRefreshFailed, "collection", "warehouses", "error", err)
		_ = s.bus.Publish(ctx, event.NewRefreshFailedEvent("warehouses", err))
		return err
	}

	items, err := s.gw.ListInventory(ctx)
	if err != nil {
		log.Warn(LogMsgRefreshFailed, "collection", "inventory", "error", err)
		_ = s.bus.Publish(ctx, event.NewRefreshFailedEvent("inventory", err))
		return err
	}

	s.mu.Lock()
	s.warehouses = warehouses
	s.items = items
	s.mu.Unlock()

	log.Debug("Collections refreshed", "warehouses", len(warehouses), "items", len(items))
	return nil
}

// RefreshInventory re-lists only the item collection (post-transfer
// reconciliation: server-side bookkeeping supersedes the local heuristic).
func (s *Store) RefreshInventory(ctx context.Context) error {
	items, err := s.gw.ListInventory(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgRefreshFailed, "collection", "inventory", "error", err)
		_ = s.bus.Publish(ctx, event.NewRefreshFailedEvent("inventory", err))
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Warehouses returns a snapshot copy of the warehouse collection.
func (s *Store) Warehouses() []domain.Warehouse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Warehouse, len(s.warehouses))
	for i, w := range s.warehouses {
		out[i] = w.Clone()
	}
	return out
}

// Items returns a snapshot copy of the item collection.
func (s *Store) Items() []domain.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InventoryItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// WarehouseByID returns a snapshot copy of one warehouse.
func (s *Store) WarehouseByID(id string) (domain.Warehouse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.warehouses {
		if w.ID == id {
			return w.Clone(), true
		}
	}
	return domain.Warehouse{}, false
}

// ItemByID returns a snapshot copy of one item.
func (s *Store) ItemByID(id string) (domain.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return domain.InventoryItem{}, false
}

// provisionalID builds a local id for a row the server has not named yet.
func provisionalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// CreateItem applies the optimistic insert and starts the gateway create.
// The returned row carries the provisional id; the server id replaces it on
// reconciliation.
func (s *Store) CreateItem(ctx context.Context, draft domain.InventoryItem) domain.InventoryItem {
	draft.ID = provisionalID()

	s.mu.Lock()
	s.items = append(s.items, draft.Clone())
	s.mu.Unlock()

	provisional := draft.ID
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		created, err := s.gw.CreateItem(bg, draft)
		if err != nil {
			logger.FromContext(bg).Warn(LogMsgCreateFellBackLocal,
				"kind", event.KindItem, "id", provisional, "error", err)
			metrics.LocalOnlyRecords.WithLabelValues(event.KindItem).Inc()
			_ = s.bus.Publish(bg, event.NewRecordCreatedLocalEvent(event.KindItem, provisional, draft.Name, err.Error()))
			return
		}
		s.reconcileItem(bg, provisional, created)
	}()

	return draft
}

// UpdateItem merges the patch into the row immediately; the server's fields
// land on top when (and if) the call succeeds. Missing id is a stale
// reference.
func (s *Store) UpdateItem(ctx context.Context, id string, patch domain.InventoryItem) (domain.InventoryItem, error) {
	s.mu.Lock()
	idx := s.itemIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.InventoryItem{}, domain.ErrStaleReference
	}
	s.items[idx] = overlayItem(s.items[idx], patch)
	merged := s.items[idx].Clone()
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		updated, err := s.gw.UpdateItem(bg, id, merged)
		if err != nil {
			logger.FromContext(bg).Warn(LogMsgUpdateRetained,
				"kind", event.KindItem, "id", id, "error", err)
			metrics.OptimisticRetained.WithLabelValues(event.KindItem).Inc()
			_ = s.bus.Publish(bg, event.NewMutationRetainedEvent(event.KindItem, id, merged.Name, err.Error()))
			return
		}
		s.reconcileItem(bg, id, updated)
	}()

	return merged, nil
}

// DeleteItem removes a row, but only after the gateway confirms. Without
// confirmation no gateway call is issued and the collection is unchanged.
func (s *Store) DeleteItem(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}

	item, ok := s.ItemByID(id)
	if !ok {
		return domain.ErrStaleReference
	}

	if err := s.gw.DeleteItem(ctx, id); err != nil {
		logger.FromContext(ctx).Warn(LogMsgDeleteAborted,
			"kind", event.KindItem, "id", id, "error", err)
		_ = s.bus.Publish(ctx, event.NewDeleteAbortedEvent(event.KindItem, id, item.Name, err.Error()))
		return err
	}

	s.mu.Lock()
	if idx := s.itemIndex(id); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// CreateWarehouse follows the same optimistic policy as CreateItem.
func (s *Store) CreateWarehouse(ctx context.Context, draft domain.Warehouse) domain.Warehouse {
	draft.ID = provisionalID()

	s.mu.Lock()
	s.warehouses = append(s.warehouses, draft.Clone())
	s.mu.Unlock()

	provisional := draft.ID
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		created, err := s.gw.CreateWarehouse(bg, draft)
		if err != nil {
			logger.FromContext(bg).Warn(LogMsgCreateFellBackLocal,
				"kind", event.KindWarehouse, "id", provisional, "error", err)
			metrics.LocalOnlyRecords.WithLabelValues(event.KindWarehouse).Inc()
			_ = s.bus.Publish(bg, event.NewRecordCreatedLocalEvent(event.KindWarehouse, provisional, draft.Name, err.Error()))
			return
		}
		s.reconcileWarehouse(bg, provisional, created)
	}()

	return draft
}

// UpdateWarehouse follows the same retain-on-failure policy as UpdateItem.
func (s *Store) UpdateWarehouse(ctx context.Context, id string, patch domain.Warehouse) (domain.Warehouse, error) {
	s.mu.Lock()
	idx := s.warehouseIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Warehouse{}, domain.ErrStaleReference
	}
	s.warehouses[idx] = overlayWarehouse(s.warehouses[idx], patch)
	merged := s.warehouses[idx].Clone()
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		updated, err := s.gw.UpdateWarehouse(bg, id, merged)
		if err != nil {
			logger.FromContext(bg).Warn(LogMsgUpdateRetained,
				"kind", event.KindWarehouse, "id", id, "error", err)
			metrics.OptimisticRetained.WithLabelValues(event.KindWarehouse).Inc()
			_ = s.bus.Publish(bg, event.NewMutationRetainedEvent(event.KindWarehouse, id, merged.Name, err.Error()))
			return
		}
		s.reconcileWarehouse(bg, id, updated)
	}()

	return merged, nil
}

// DeleteWarehouse is confirmation-gated like DeleteItem. The remote service
// cascades the delete to the warehouse's inventory; the client only drops
// its local copies after success.
func (s *Store) DeleteWarehouse(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}

	w, ok := s.WarehouseByID(id)
	if !ok {
		return domain.ErrStaleReference
	}

	if err := s.gw.DeleteWarehouse(ctx, id); err != nil {
		logger.FromContext(ctx).Warn(LogMsgDeleteAborted,
			"kind", event.KindWarehouse, "id", id, "error", err)
		_ = s.bus.Publish(ctx, event.NewDeleteAbortedEvent(event.KindWarehouse, id, w.Name, err.Error()))
		return err
	}

	s.mu.Lock()
	if idx := s.warehouseIndex(id); idx >= 0 {
		s.warehouses = append(s.warehouses[:idx], s.warehouses[idx+1:]...)
	}
	// Mirror the server-side cascade locally rather than waiting for the
	// next refresh.
	kept := s.items[:0]
	for _, it := range s.items {
		if it.WarehouseID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()
	return nil
}

// ApplyTransfer performs the local split/merge heuristic for a validated
// transfer: reduce (or remove) the source row, create or increment the
// destination row, stamp LastMoved on every touched row, and shift the
// derived used-units figures between the two warehouses.
func (s *Store) ApplyTransfer(req domain.TransferRequest, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcIdx := s.itemIndex(req.InventoryID)
	if srcIdx < 0 {
		return domain.ErrStaleReference
	}

	source := s.items[srcIdx]
	remaining := source.Quantity - req.Quantity
	if remaining < 0 {
		remaining = 0
	}
	depleted := remaining == 0

	// Destination: merge into an existing same-SKU row when there is one,
	// mirroring the server's bookkeeping.
	dstIdx := -1
	for i, it := range s.items {
		if i != srcIdx && it.WarehouseID == req.ToWarehouseID && it.SKU == source.SKU {
			dstIdx = i
			break
		}
	}

	if dstIdx >= 0 {
		s.items[dstIdx].Quantity += req.Quantity
		s.items[dstIdx].LastMoved = now
		if req.StorageLocation != "" {
			s.items[dstIdx].StorageLocation = req.StorageLocation
		}
	} else {
		moved := source.Clone()
		moved.WarehouseID = req.ToWarehouseID
		moved.Quantity = req.Quantity
		moved.StorageLocation = req.StorageLocation
		moved.LastMoved = now
		if depleted {
			// Full depletion replaces the source row; its identity moves
			// with the stock.
			moved.ID = source.ID
		} else {
			moved.ID = provisionalID()
		}
		s.items = append(s.items, moved)
	}

	if depleted {
		s.items = append(s.items[:srcIdx], s.items[srcIdx+1:]...)
	} else {
		s.items[srcIdx].Quantity = remaining
		s.items[srcIdx].LastMoved = now
	}

	s.shiftUsedUnits(req.FromWarehouseID, -req.Quantity)
	s.shiftUsedUnits(req.ToWarehouseID, req.Quantity)
	return nil
}

// shiftUsedUnits adjusts a warehouse's derived used-units figure when a
// transfer moves stock. Warehouses without a probe result are left alone.
func (s *Store) shiftUsedUnits(warehouseID string, delta int) {
	idx := s.warehouseIndex(warehouseID)
	if idx < 0 || s.warehouses[idx].Capacity == nil {
		return
	}
	used := *s.warehouses[idx].Capacity + delta
	if used < 0 {
		used = 0
	}
	s.warehouses[idx].Capacity = domain.IntPtr(used)
}

// CheckAtRisk publishes a watchlist event if the warehouse has crossed the
// utilization threshold.
func (s *Store) CheckAtRisk(ctx context.Context, warehouseID string) {
	w, ok := s.WarehouseByID(warehouseID)
	if !ok || !capacity.IsAtRisk(w) {
		return
	}
	used, max := capacity.UsedMax(w)
	_ = s.bus.Publish(ctx, event.NewWarehouseAtRiskEvent(w.ID, w.Name, capacity.UtilizationPercent(used, max)))
}

// reconcileItem merges the server's record into the logical row created or
// updated under localID. The server id wins over a provisional id. A row
// deleted while the call was in flight is left deleted.
func (s *Store) reconcileItem(ctx context.Context, localID string, server domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(localID)
	if idx < 0 {
		logger.FromContext(ctx).Debug(LogMsgReconcileSkipped, "kind", event.KindItem, "id", localID)
		return
	}
	s.items[idx] = overlayItem(s.items[idx], server)
	if server.ID != "" {
		s.items[idx].ID = server.ID
	}
}

// reconcileWarehouse is reconcileItem for the warehouse collection.
func (s *Store) reconcileWarehouse(ctx context.Context, localID string, server domain.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.warehouseIndex(localID)
	if idx < 0 {
		logger.FromContext(ctx).Debug(LogMsgReconcileSkipped, "kind", event.KindWarehouse, "id", localID)
		return
	}
	s.warehouses[idx] = overlayWarehouse(s.warehouses[idx], server)
	if server.ID != "" {
		s.warehouses[idx].ID = server.ID
	}
}

// itemIndex must be called with the lock held.
func (s *Store) itemIndex(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// warehouseIndex must be called with the lock held.
func (s *Store) warehouseIndex(id string) int {
	for i, w := range s.warehouses {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// overlayItem lays every field of the patch over the base row, keeping the
// base identity and the client-owned LastMoved stamp unless the patch
// carries its own. Extra maps merge with the patch winning per key.
func overlayItem(base, patch domain.InventoryItem) domain.InventoryItem {
	merged := base.Clone()
	merged.Name = patch.Name
	merged.SKU = patch.SKU
	merged.Description = patch.Description
	merged.Quantity = patch.Quantity
	merged.StorageLocation = patch.StorageLocation
	merged.WarehouseID = patch.WarehouseID
	if !patch.LastMoved.IsZero() {
		merged.LastMoved = patch.LastMoved
	}
	for k, v := range patch.Extra {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any)
		}
		merged.Extra[k] = v
	}
	return merged
}

// overlayWarehouse lays the patch over the base warehouse. Capacity pointers
// only overlay when the patch carries them, so a write that omits capacity
// does not erase the probe result.
func overlayWarehouse(base, patch domain.Warehouse) domain.Warehouse {
	merged := base.Clone()
	merged.Name = patch.Name
	merged.Location = patch.Location
	if patch.Capacity != nil {
		merged.Capacity = domain.IntPtr(*patch.Capacity)
	}
	if patch.MaximumCapacity != nil {
		merged.MaximumCapacity = domain.IntPtr(*patch.MaximumCapacity)
	}
	return merged
}
