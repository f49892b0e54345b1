package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmcgann/stockdeck/internal/domain"
)

func sampleItems() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: "1", Name: "Steel Bolt", SKU: "BLT-10", WarehouseID: "wh-1"},
		{ID: "2", Name: "Brass Nut", SKU: "NUT-20", WarehouseID: "wh-1"},
		{ID: "3", Name: "Washer", SKU: "WSH-30", WarehouseID: "wh-2"},
		{ID: "4", Name: "bolt cutter", SKU: "TL-40", WarehouseID: "wh-2"},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter matches all", Filter{}, []string{"1", "2", "3", "4"}},
		{"all sentinel matches all", Filter{WarehouseID: AllWarehouses}, []string{"1", "2", "3", "4"}},
		{"warehouse scoping", Filter{WarehouseID: "wh-2"}, []string{"3", "4"}},
		{"search over name case-insensitive", Filter{Search: "BOLT"}, []string{"1", "4"}},
		{"search over sku", Filter{Search: "nut-2"}, []string{"2"}},
		{"search and scope combine", Filter{Search: "bolt", WarehouseID: "wh-1"}, []string{"1"}},
		{"whitespace-only search matches all", Filter{Search: "   "}, []string{"1", "2", "3", "4"}},
		{"no match", Filter{Search: "gasket"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleItems(), tt.filter)
			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPaginate(t *testing.T) {
	makeItems := func(n int) []domain.InventoryItem {
		out := make([]domain.InventoryItem, n)
		for i := range out {
			out[i] = domain.InventoryItem{ID: fmt.Sprintf("it-%d", i+1)}
		}
		return out
	}

	t.Run("empty collection is one empty page", func(t *testing.T) {
		p := Paginate(nil, 1)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.PageCount)
		assert.Empty(t, p.Items)
	})

	t.Run("slices by fixed page size", func(t *testing.T) {
		p := Paginate(makeItems(23), 2)
		assert.Equal(t, 3, p.PageCount)
		require.Len(t, p.Items, 10)
		assert.Equal(t, "it-11", p.Items[0].ID)
		assert.Equal(t, 23, p.Total)
	})

	t.Run("last page is partial", func(t *testing.T) {
		p := Paginate(makeItems(23), 3)
		assert.Len(t, p.Items, 3)
	})

	t.Run("page beyond count clamps down", func(t *testing.T) {
		p := Paginate(makeItems(23), 9)
		assert.Equal(t, 3, p.Page)
	})

	t.Run("page below one clamps up", func(t *testing.T) {
		p := Paginate(makeItems(5), 0)
		assert.Equal(t, 1, p.Page)
	})
}

type staticSource struct {
	items []domain.InventoryItem
}

func (s *staticSource) Items() []domain.InventoryItem { return s.items }

func TestView(t *testing.T) {
	// 23 items; 15 of them match the search term.
	items := make([]domain.InventoryItem, 0, 23)
	for i := 1; i <= 15; i++ {
		items = append(items, domain.InventoryItem{
			ID: fmt.Sprintf("m-%d", i), Name: fmt.Sprintf("Widget %d", i), SKU: fmt.Sprintf("WID-%d", i), WarehouseID: "wh-1",
		})
	}
	for i := 1; i <= 8; i++ {
		items = append(items, domain.InventoryItem{
			ID: fmt.Sprintf("o-%d", i), Name: fmt.Sprintf("Other %d", i), SKU: fmt.Sprintf("OTH-%d", i), WarehouseID: "wh-2",
		})
	}
	src := &staticSource{items: items}

	t.Run("unfiltered pages", func(t *testing.T) {
		v := NewView(src)
		p := v.Snapshot()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 3, p.PageCount)
		assert.Equal(t, 23, p.Total)
		assert.Len(t, p.Items, 10)
	})

	t.Run("filtering resets to page 1 and shrinks page count", func(t *testing.T) {
		v := NewView(src)
		v.SetPage(3)
		require.Equal(t, 3, v.Snapshot().Page)

		v.SetFilter(Filter{Search: "widget"})
		p := v.Snapshot()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 2, p.PageCount)
		assert.Equal(t, 15, p.Total)
	})

	t.Run("stale page clamps on recompute", func(t *testing.T) {
		v := NewView(src)
		v.SetFilter(Filter{Search: "widget"})
		v.SetPage(3)

		p := v.Snapshot()
		assert.Equal(t, 2, p.Page, "page 3 no longer exists under the filter")
		assert.Len(t, p.Items, 5)

		// The clamp sticks: the next snapshot stays on page 2.
		assert.Equal(t, 2, v.Snapshot().Page)
	})

	t.Run("collection changes are picked up without invalidation", func(t *testing.T) {
		mutable := &staticSource{items: items[:5]}
		v := NewView(mutable)
		assert.Equal(t, 5, v.Snapshot().Total)

		mutable.items = items
		assert.Equal(t, 23, v.Snapshot().Total)
	})
}
