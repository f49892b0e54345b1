// Package query filters and paginates the item collection for display. The
// view is recomputed from a fresh snapshot on every read, so it can never
// show a page that no longer exists.
package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tmcgann/stockdeck/internal/domain"
)

// Filter narrows the item collection. An empty Search matches everything;
// WarehouseID set to AllWarehouses (or empty) matches every warehouse.
type Filter struct {
	Search      string `json:"search"`
	WarehouseID string `json:"warehouseId"`
}

var foldCaser = cases.Fold()

// Apply returns the items matching the filter, preserving collection order.
// The text match is a case-folded substring match over name or SKU.
func Apply(items []domain.InventoryItem, f Filter) []domain.InventoryItem {
	needle := foldCaser.String(strings.TrimSpace(f.Search))
	scoped := f.WarehouseID != "" && f.WarehouseID != AllWarehouses

	out := make([]domain.InventoryItem, 0, len(items))
	for _, it := range items {
		if scoped && it.WarehouseID != f.WarehouseID {
			continue
		}
		if needle != "" &&
			!strings.Contains(foldCaser.String(it.Name), needle) &&
			!strings.Contains(foldCaser.String(it.SKU), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Page is one page of a filtered collection.
type Page struct {
	Items     []domain.InventoryItem `json:"items"`
	Page      int                    `json:"page"`
	PageCount int                    `json:"pageCount"`
	Total     int                    `json:"total"`
}

// Paginate slices the filtered items into the requested 1-indexed page.
// pageCount is never below 1, and a page beyond it clamps down.
func Paginate(items []domain.InventoryItem, page int) Page {
	count := (len(items) + PageSize - 1) / PageSize
	if count < 1 {
		count = 1
	}
	if page < 1 {
		page = 1
	}
	if page > count {
		page = count
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page{
		Items:     items[start:end],
		Page:      page,
		PageCount: count,
		Total:     len(items),
	}
}
