package query

import (
	"sync"

	"github.com/tmcgann/stockdeck/internal/domain"
)

// Source supplies the item snapshot the view is computed over.
type Source interface {
	Items() []domain.InventoryItem
}

// View is the stateful filtered-and-paginated window over the collection.
// It holds only the filter and the requested page; the visible items are
// recomputed from the source on every Snapshot, so collection changes are
// picked up without explicit invalidation.
type View struct {
	mu     sync.Mutex
	src    Source
	filter Filter
	page   int
}

// NewView creates a view showing page 1 of the unfiltered collection.
func NewView(src Source) *View {
	return &View{
		src:    src,
		filter: Filter{WarehouseID: AllWarehouses},
		page:   1,
	}
}

// SetFilter replaces the filter and resets to page 1.
func (v *View) SetFilter(f Filter) {
	if f.WarehouseID == "" {
		f.WarehouseID = AllWarehouses
	}
	v.mu.Lock()
	v.filter = f
	v.page = 1
	v.mu.Unlock()
}

// Filter returns the active filter.
func (v *View) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// SetPage requests a page. Out-of-range values are tolerated and clamp on
// the next Snapshot.
func (v *View) SetPage(page int) {
	v.mu.Lock()
	if page < 1 {
		page = 1
	}
	v.page = page
	v.mu.Unlock()
}

// Snapshot recomputes the visible page from the current collection. The
// stored page is updated to the clamped value so subsequent navigation is
// relative to what the caller actually saw.
func (v *View) Snapshot() Page {
	items := v.src.Items()

	v.mu.Lock()
	defer v.mu.Unlock()

	page := Paginate(Apply(items, v.filter), v.page)
	v.page = page.Page
	return page
}
