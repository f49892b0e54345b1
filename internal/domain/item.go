package domain

import (
	"maps"
	"time"
)

// InventoryItem is the canonical client-side shape of an inventory row after
// normalization. WarehouseID is the only relationship edge in the model; an
// empty value means the row is unassigned.
type InventoryItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SKU             string `json:"sku"`
	Description     string `json:"description,omitempty"`
	Quantity        int    `json:"quantity"`
	StorageLocation string `json:"storageLocation,omitempty"`
	WarehouseID     string `json:"warehouseId"`

	// LastMoved is set by the transfer engine when a transfer touches this
	// row. The server never supplies it.
	LastMoved time.Time `json:"lastMoved,omitzero"`

	// Extra holds wire fields the client does not model, so unknown server
	// fields survive a read-modify-write cycle.
	Extra map[string]any `json:"-"`
}

// Clone returns a copy with its own Extra map.
func (i InventoryItem) Clone() InventoryItem {
	c := i
	if i.Extra != nil {
		c.Extra = maps.Clone(i.Extra)
	}
	return c
}
