package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/event"
	"github.com/tmcgann/stockdeck/internal/store"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) subscribe(bus event.Bus, types ...event.Type) {
	for _, t := range types {
		bus.Subscribe(t, func(ctx context.Context, e event.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
}

func (r *recorder) count(t event.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, fake *store.FakeGateway) (*Engine, *store.Store, *event.MemoryBus) {
	t.Helper()
	bus := event.NewMemoryBus()
	st := store.New(fake, bus)
	require.NoError(t, st.Refresh(context.Background()))
	return NewEngine(st, fake, bus), st, bus
}

func seededFake() *store.FakeGateway {
	fake := store.NewFakeGateway()
	fake.RemoteWarehouses = []domain.Warehouse{
		{ID: "wh-1", Name: "Central", MaximumCapacity: domain.IntPtr(100)},
		{ID: "wh-2", Name: "North", MaximumCapacity: domain.IntPtr(100)},
		{ID: "wh-3", Name: "South", MaximumCapacity: domain.IntPtr(100)},
	}
	fake.RemoteItems = []domain.InventoryItem{
		{ID: "it-1", Name: "Widget", SKU: "WID-1", Quantity: 10, WarehouseID: "wh-1"},
		{ID: "it-2", Name: "Gadget", SKU: "GAD-1", Quantity: 90, WarehouseID: "wh-2"},
	}
	return fake
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds destination and quantity", func(t *testing.T) {
		eng, st, _ := newTestEngine(t, seededFake())

		item, _ := st.ItemByID("it-1")
		draft, err := eng.Open(ctx, item, DetailSeedCap)
		require.NoError(t, err)

		assert.Equal(t, "wh-1", draft.SourceWarehouseID)
		assert.Equal(t, "wh-2", draft.DestinationWarehouseID, "first warehouse differing from the source")
		assert.Equal(t, 10, draft.Quantity)
		assert.Empty(t, draft.StorageLocation)
		assert.Equal(t, StateOpen, eng.State())
	})

	t.Run("quantity capped by seed cap", func(t *testing.T) {
		fake := seededFake()
		fake.RemoteItems[0].Quantity = 75
		eng, st, _ := newTestEngine(t, fake)

		item, _ := st.ItemByID("it-1")
		draft, err := eng.Open(ctx, item, ListSeedCap)
		require.NoError(t, err)
		assert.Equal(t, 50, draft.Quantity)
	})

	t.Run("source warehouse first in collection is skipped", func(t *testing.T) {
		eng, st, _ := newTestEngine(t, seededFake())

		item, _ := st.ItemByID("it-2") // lives in wh-2
		draft, err := eng.Open(ctx, item, DetailSeedCap)
		require.NoError(t, err)
		assert.Equal(t, "wh-1", draft.DestinationWarehouseID)
	})

	t.Run("stale item", func(t *testing.T) {
		eng, _, _ := newTestEngine(t, seededFake())
		_, err := eng.Open(ctx, domain.InventoryItem{ID: "nope"}, DetailSeedCap)
		assert.ErrorIs(t, err, domain.ErrStaleReference)
	})
}

func TestValidate(t *testing.T) {
	eng, _, _ := newTestEngine(t, seededFake())

	base := Draft{
		InventoryID:            "it-1",
		SourceWarehouseID:      "wh-1",
		DestinationWarehouseID: "wh-3",
		Quantity:               5,
	}

	t.Run("valid draft", func(t *testing.T) {
		assert.NoError(t, eng.Validate(base))
	})

	t.Run("empty destination", func(t *testing.T) {
		d := base
		d.DestinationWarehouseID = ""
		assert.ErrorIs(t, eng.Validate(d), domain.ErrInvalidDestination)
	})

	t.Run("destination equals source", func(t *testing.T) {
		d := base
		d.DestinationWarehouseID = "wh-1"
		assert.ErrorIs(t, eng.Validate(d), domain.ErrInvalidDestination)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		d := base
		d.Quantity = 0
		assert.ErrorIs(t, eng.Validate(d), domain.ErrInvalidQuantity)
		d.Quantity = -3
		assert.ErrorIs(t, eng.Validate(d), domain.ErrInvalidQuantity)
	})

	t.Run("destination at capacity", func(t *testing.T) {
		// wh-2 holds 90 of 100; 15 more would overflow.
		d := base
		d.DestinationWarehouseID = "wh-2"
		d.Quantity = 15
		assert.ErrorIs(t, eng.Validate(d), domain.ErrCapacityExceeded)

		d.Quantity = 10 // exactly fills it
		assert.NoError(t, eng.Validate(d))
	})

	t.Run("no ceiling means no capacity check", func(t *testing.T) {
		fake := seededFake()
		fake.RemoteWarehouses[2].MaximumCapacity = nil
		eng, _, _ := newTestEngine(t, fake)

		d := base
		d.Quantity = 100000
		assert.NoError(t, eng.Validate(d))
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection leaves local state untouched and preserves the draft", func(t *testing.T) {
		eng, st, _ := newTestEngine(t, seededFake())
		before := st.Items()

		d := Draft{
			InventoryID:            "it-1",
			SourceWarehouseID:      "wh-1",
			DestinationWarehouseID: "wh-2",
			Quantity:               15, // 90 + 15 > 100
		}
		err := eng.Submit(ctx, d)
		require.ErrorIs(t, err, domain.ErrCapacityExceeded)

		assert.Equal(t, StateRejected, eng.State())
		assert.Equal(t, d, eng.CurrentDraft(), "draft kept for correction")
		assert.ErrorIs(t, eng.RejectionReason(), domain.ErrCapacityExceeded)
		assert.Equal(t, before, st.Items())
	})

	t.Run("commit applies locally then reconciles with the server", func(t *testing.T) {
		fake := seededFake()
		eng, st, bus := newTestEngine(t, fake)
		rec := &recorder{}
		rec.subscribe(bus, event.TransferCommitted)

		d := Draft{
			InventoryID:            "it-1",
			SourceWarehouseID:      "wh-1",
			DestinationWarehouseID: "wh-3",
			Quantity:               4,
			StorageLocation:        "C1",
		}
		require.NoError(t, eng.Submit(ctx, d))

		eng.Drain()
		st.Drain()

		assert.Equal(t, 1, rec.count(event.TransferCommitted))
		assert.Equal(t, StateIdle, eng.State())
		assert.Equal(t, StateCommitted, eng.LastOutcome())

		// Post-refresh state is the server's: source reduced, new row at
		// the destination with a server id.
		source, ok := st.ItemByID("it-1")
		require.True(t, ok)
		assert.Equal(t, 6, source.Quantity)
		var dstQty int
		for _, it := range st.Items() {
			if it.WarehouseID == "wh-3" && it.SKU == "WID-1" {
				dstQty = it.Quantity
			}
		}
		assert.Equal(t, 4, dstQty)

		require.Len(t, fake.Transfers, 1)
		assert.Equal(t, domain.TransferRequest{
			InventoryID:     "it-1",
			FromWarehouseID: "wh-1",
			ToWarehouseID:   "wh-3",
			Quantity:        4,
			StorageLocation: "C1",
		}, fake.Transfers[0])
	})

	t.Run("full depletion leaves no source row", func(t *testing.T) {
		eng, st, _ := newTestEngine(t, seededFake())

		d := Draft{
			InventoryID:            "it-1",
			SourceWarehouseID:      "wh-1",
			DestinationWarehouseID: "wh-3",
			Quantity:               10,
		}
		require.NoError(t, eng.Submit(ctx, d))
		eng.Drain()

		for _, it := range st.Items() {
			if it.SKU == "WID-1" {
				assert.Equal(t, "wh-3", it.WarehouseID)
				assert.Equal(t, 10, it.Quantity)
			}
		}
	})

	t.Run("remote failure keeps the optimistic split", func(t *testing.T) {
		fake := seededFake()
		fake.FailTransfer = true
		eng, st, bus := newTestEngine(t, fake)
		rec := &recorder{}
		rec.subscribe(bus, event.TransferFailedRemote)

		d := Draft{
			InventoryID:            "it-1",
			SourceWarehouseID:      "wh-1",
			DestinationWarehouseID: "wh-3",
			Quantity:               4,
		}
		require.NoError(t, eng.Submit(ctx, d))
		eng.Drain()

		assert.Equal(t, 1, rec.count(event.TransferFailedRemote))
		assert.Equal(t, StateFailedRemote, eng.LastOutcome())
		assert.Equal(t, StateIdle, eng.State())

		source, ok := st.ItemByID("it-1")
		require.True(t, ok)
		assert.Equal(t, 6, source.Quantity, "split not rolled back")
		var dstQty int
		for _, it := range st.Items() {
			if it.WarehouseID == "wh-3" && it.SKU == "WID-1" {
				dstQty = it.Quantity
			}
		}
		assert.Equal(t, 4, dstQty)
	})

	t.Run("stale source aborts before the remote leg", func(t *testing.T) {
		fake := seededFake()
		eng, _, _ := newTestEngine(t, fake)

		d := Draft{
			InventoryID:            "gone",
			SourceWarehouseID:      "wh-1",
			DestinationWarehouseID: "wh-3",
			Quantity:               1,
		}
		err := eng.Submit(ctx, d)
		assert.ErrorIs(t, err, domain.ErrStaleReference)
		eng.Drain()
		assert.Zero(t, fake.CallCount("transfer"))
	})
}
