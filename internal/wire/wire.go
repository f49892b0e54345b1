// Package wire converts between the heterogeneous record shapes the remote
// warehouse service emits and the single canonical client representation.
//
// The service is inconsistent about how an item references its warehouse: the
// same collection can contain a camelCase id, a snake_case id, a nested
// warehouse object, or a bare scalar. Normalization resolves them in a fixed
// priority order so the rest of the engine only ever sees WarehouseID.
package wire

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/tmcgann/stockdeck/internal/domain"
)

// Record is a raw wire-shape row, decoded without schema assumptions.
type Record map[string]any

// Keys the item normalizer owns. Everything else passes through via Extra.
const (
	keyID              = "id"
	keyName            = "name"
	keySKU             = "sku"
	keyDescription     = "description"
	keyQuantity        = "quantity"
	keyStorageLocation = "storageLocation"
	keyLastMoved       = "lastMoved"

	keyWarehouseID      = "warehouseId"
	keyWarehouseIDSnake = "warehouse_id"
	keyWarehouse        = "warehouse"
)

// ResolveWarehouseID applies the reference-resolution priority order:
// warehouseId, then warehouse_id, then a nested warehouse object's id (or a
// bare warehouse scalar). First present non-null value wins; absence resolves
// to "" (unassigned).
func ResolveWarehouseID(rec Record) string {
	if v, ok := rec[keyWarehouseID]; ok && v != nil {
		return scalarString(v)
	}
	if v, ok := rec[keyWarehouseIDSnake]; ok && v != nil {
		return scalarString(v)
	}
	if v, ok := rec[keyWarehouse]; ok && v != nil {
		if nested, ok := v.(map[string]any); ok {
			return scalarString(nested[keyID])
		}
		return scalarString(v)
	}
	return ""
}

// ToCanonical converts a raw item record into the canonical client shape.
// It never fails: missing fields default to ""/0, unknown fields are kept on
// Extra so they survive a later write.
func ToCanonical(rec Record) domain.InventoryItem {
	item := domain.InventoryItem{
		ID:              scalarString(rec[keyID]),
		Name:            scalarString(rec[keyName]),
		SKU:             scalarString(rec[keySKU]),
		Description:     scalarString(rec[keyDescription]),
		Quantity:        scalarInt(rec[keyQuantity]),
		StorageLocation: scalarString(rec[keyStorageLocation]),
		WarehouseID:     ResolveWarehouseID(rec),
	}

	if raw := scalarString(rec[keyLastMoved]); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			item.LastMoved = ts
		}
	}

	for k, v := range rec {
		switch k {
		case keyID, keyName, keySKU, keyDescription, keyQuantity,
			keyStorageLocation, keyLastMoved,
			keyWarehouseID, keyWarehouseIDSnake, keyWarehouse:
			continue
		}
		if item.Extra == nil {
			item.Extra = make(map[string]any)
		}
		item.Extra[k] = v
	}

	return item
}

// ToWire builds the request body for the write API. Servers in the field
// expect any one of the three warehouse-reference conventions, so the payload
// carries all of them: both id keys with the same value, plus a nested
// warehouse object when a reference is resolved.
func ToWire(item domain.InventoryItem) Record {
	rec := make(Record, len(item.Extra)+10)
	for k, v := range item.Extra {
		switch k {
		case keyWarehouseID, keyWarehouseIDSnake, keyWarehouse:
			// Stale shapes must not shadow the resolved reference.
			continue
		}
		rec[k] = v
	}

	if item.ID != "" {
		rec[keyID] = item.ID
	}
	rec[keyName] = item.Name
	rec[keySKU] = item.SKU
	rec[keyDescription] = item.Description
	rec[keyQuantity] = item.Quantity
	rec[keyStorageLocation] = item.StorageLocation
	if !item.LastMoved.IsZero() {
		rec[keyLastMoved] = item.LastMoved.Format(time.RFC3339)
	}

	rec[keyWarehouseID] = item.WarehouseID
	rec[keyWarehouseIDSnake] = item.WarehouseID
	if item.WarehouseID != "" {
		rec[keyWarehouse] = map[string]any{keyID: item.WarehouseID}
	}

	return rec
}

// ToCanonicalWarehouse normalizes a raw warehouse record. Ids are stringified
// (the service uses integer ids, the client treats them as opaque keys) and
// the capacity fields keep their absence.
func ToCanonicalWarehouse(rec Record) domain.Warehouse {
	w := domain.Warehouse{
		ID:       scalarString(rec[keyID]),
		Name:     scalarString(rec[keyName]),
		Location: scalarString(rec["location"]),
	}
	if v, ok := rec["capacity"]; ok && v != nil {
		w.Capacity = domain.IntPtr(scalarInt(v))
	}
	if v, ok := rec["maximumCapacity"]; ok && v != nil {
		w.MaximumCapacity = domain.IntPtr(scalarInt(v))
	}
	return w
}

// scalarString renders a scalar wire value as an opaque string key.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// scalarInt coerces a scalar wire value to an int, defaulting to 0.
func scalarInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return 0
}
