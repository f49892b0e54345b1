package gateway

import "time"

// Default configuration values
const (
	// DefaultTimeout bounds a single call to the remote service
	DefaultTimeout = 10 * time.Second

	// DefaultCapacityCacheSize is the maximum number of cached capacity probes
	DefaultCapacityCacheSize = 256

	// DefaultCapacityCacheTTL is how long a capacity probe result stays fresh
	DefaultCapacityCacheTTL = 30 * time.Second
)

// Operation names used for metrics labels and error messages
const (
	OpListWarehouses    = "list_warehouses"
	OpWarehouseCapacity = "warehouse_capacity"
	OpCreateWarehouse   = "create_warehouse"
	OpUpdateWarehouse   = "update_warehouse"
	OpDeleteWarehouse   = "delete_warehouse"
	OpListInventory     = "list_inventory"
	OpCreateItem        = "create_item"
	OpUpdateItem        = "update_item"
	OpDeleteItem        = "delete_item"
	OpTransfer          = "transfer"
)

// Remote service paths
const (
	PathWarehouses = "/warehouses"
	PathInventory  = "/inventory"
	PathTransfer   = "/warehouses/transfer"
)

// Status label for transport-level failures (no HTTP status available)
const StatusTransportError = "transport_error"
