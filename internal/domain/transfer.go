package domain

// TransferRequest is the body sent to POST /warehouses/transfer.
type TransferRequest struct {
	InventoryID     string `json:"inventoryId"`
	FromWarehouseID string `json:"fromWarehouseId"`
	ToWarehouseID   string `json:"toWarehouseId"`
	Quantity        int    `json:"quantity"`
	StorageLocation string `json:"storageLocation"`
}
