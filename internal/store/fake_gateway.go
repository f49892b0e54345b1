package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmcgann/stockdeck/internal/domain"
)

// FakeGateway is a stateful in-memory stand-in for the remote warehouse
// service, used for integration-style unit tests of the store, the transfer
// engine, and the handlers. Failure toggles simulate the remote being down
// for a class of operations.
//
// It lives in this package (not in a _test.go file) so sibling packages can
// reuse it in their own tests.
type FakeGateway struct {
	mu sync.Mutex

	RemoteWarehouses []domain.Warehouse
	RemoteItems      []domain.InventoryItem

	FailLists    bool
	FailCreates  bool
	FailUpdates  bool
	FailDeletes  bool
	FailTransfer bool

	// Calls records every operation name in order, for asserting that an
	// intent did (or did not) reach the gateway.
	Calls []string

	// Transfers records the request bodies of transfer calls.
	Transfers []domain.TransferRequest

	nextID int
}

// NewFakeGateway creates an empty fake remote.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

var errFakeRemote = fmt.Errorf("%w: fake remote unavailable", domain.ErrFetch)

func (f *FakeGateway) record(op string) {
	f.Calls = append(f.Calls, op)
}

// CallCount returns how many times the named operation was issued.
func (f *FakeGateway) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *FakeGateway) assignID() string {
	f.nextID++
	return fmt.Sprintf("srv-%d", f.nextID)
}

func (f *FakeGateway) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_warehouses")
	if f.FailLists {
		return nil, errFakeRemote
	}
	out := make([]domain.Warehouse, len(f.RemoteWarehouses))
	for i, w := range f.RemoteWarehouses {
		out[i] = w.Clone()
	}
	return out, nil
}

func (f *FakeGateway) CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_warehouse")
	if f.FailCreates {
		return domain.Warehouse{}, errFakeRemote
	}
	w.ID = f.assignID()
	f.RemoteWarehouses = append(f.RemoteWarehouses, w.Clone())
	return w, nil
}

func (f *FakeGateway) UpdateWarehouse(ctx context.Context, id string, w domain.Warehouse) (domain.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_warehouse")
	if f.FailUpdates {
		return domain.Warehouse{}, errFakeRemote
	}
	for i, existing := range f.RemoteWarehouses {
		if existing.ID == id {
			w.ID = id
			f.RemoteWarehouses[i] = w.Clone()
			return w, nil
		}
	}
	return domain.Warehouse{}, errFakeRemote
}

func (f *FakeGateway) DeleteWarehouse(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete_warehouse")
	if f.FailDeletes {
		return errFakeRemote
	}
	for i, w := range f.RemoteWarehouses {
		if w.ID == id {
			f.RemoteWarehouses = append(f.RemoteWarehouses[:i], f.RemoteWarehouses[i+1:]...)
			break
		}
	}
	// Cascade to inventory, as the real service does.
	kept := f.RemoteItems[:0]
	for _, it := range f.RemoteItems {
		if it.WarehouseID != id {
			kept = append(kept, it)
		}
	}
	f.RemoteItems = kept
	return nil
}

func (f *FakeGateway) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_inventory")
	if f.FailLists {
		return nil, errFakeRemote
	}
	out := make([]domain.InventoryItem, len(f.RemoteItems))
	for i, it := range f.RemoteItems {
		out[i] = it.Clone()
	}
	return out, nil
}

func (f *FakeGateway) CreateItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_item")
	if f.FailCreates {
		return domain.InventoryItem{}, errFakeRemote
	}
	item.ID = f.assignID()
	f.RemoteItems = append(f.RemoteItems, item.Clone())
	return item, nil
}

func (f *FakeGateway) UpdateItem(ctx context.Context, id string, item domain.InventoryItem) (domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_item")
	if f.FailUpdates {
		return domain.InventoryItem{}, errFakeRemote
	}
	for i, existing := range f.RemoteItems {
		if existing.ID == id {
			item.ID = id
			f.RemoteItems[i] = item.Clone()
			return item, nil
		}
	}
	return domain.InventoryItem{}, errFakeRemote
}

func (f *FakeGateway) DeleteItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete_item")
	if f.FailDeletes {
		return errFakeRemote
	}
	for i, it := range f.RemoteItems {
		if it.ID == id {
			f.RemoteItems = append(f.RemoteItems[:i], f.RemoteItems[i+1:]...)
			return nil
		}
	}
	return errors.New("item not found")
}

// Transfer applies the server's own bookkeeping: decrement or delete the
// source row, merge into an existing same-SKU destination row or create one
// with a fresh server id. This is what a post-transfer refresh observes.
func (f *FakeGateway) Transfer(ctx context.Context, req domain.TransferRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("transfer")
	f.Transfers = append(f.Transfers, req)
	if f.FailTransfer {
		return errFakeRemote
	}

	srcIdx := -1
	for i, it := range f.RemoteItems {
		if it.ID == req.InventoryID {
			srcIdx = i
			break
		}
	}
	if srcIdx < 0 {
		return errors.New("item not found")
	}
	source := f.RemoteItems[srcIdx]

	dstIdx := -1
	for i, it := range f.RemoteItems {
		if i != srcIdx && it.WarehouseID == req.ToWarehouseID && it.SKU == source.SKU {
			dstIdx = i
			break
		}
	}
	if dstIdx >= 0 {
		f.RemoteItems[dstIdx].Quantity += req.Quantity
	} else {
		moved := source.Clone()
		moved.ID = f.assignID()
		moved.WarehouseID = req.ToWarehouseID
		moved.Quantity = req.Quantity
		moved.StorageLocation = req.StorageLocation
		f.RemoteItems = append(f.RemoteItems, moved)
	}

	if source.Quantity <= req.Quantity {
		f.RemoteItems = append(f.RemoteItems[:srcIdx], f.RemoteItems[srcIdx+1:]...)
	} else {
		f.RemoteItems[srcIdx].Quantity -= req.Quantity
	}
	return nil
}
