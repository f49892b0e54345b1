// Package gateway is the REST client for the remote warehouse service.
//
// The service is treated as a fallible, asynchronous dependency: reads fail
// with FetchError and leave the caller's previous state intact, capacity
// probes degrade to "no override", and writes report their outcome to the
// store's reconciliation logic rather than to the user directly.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/metrics"
	"github.com/tmcgann/stockdeck/internal/wire"
)

// API is the remote surface the engine consumes. Tests substitute a stateful
// fake; production uses Client.
type API interface {
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id string, w domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id string) error

	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	CreateItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, item domain.InventoryItem) (domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error

	Transfer(ctx context.Context, req domain.TransferRequest) error
}

// FetchError describes a failed call to the remote service.
type FetchError struct {
	Op     string
	Status int // 0 for transport-level failures
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: %s returned status %d", domain.ErrMsgFetchFailed, e.Op, "remote", e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", domain.ErrMsgFetchFailed, e.Op, e.Err)
}

// Unwrap lets callers match with errors.Is(err, domain.ErrFetch).
func (e *FetchError) Unwrap() error { return domain.ErrFetch }

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	CapacityCacheSize int
	CapacityCacheTTL  time.Duration
}

// Client implements API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client

	// capacityCache short-circuits the per-warehouse capacity probes that
	// enrich every listing; listings are frequent and capacity drifts slowly.
	capacityCache *expirable.LRU[string, int]
}

// NewClient creates a gateway client for the given base URL.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	size := opts.CapacityCacheSize
	if size <= 0 {
		size = DefaultCapacityCacheSize
	}
	ttl := opts.CapacityCacheTTL
	if ttl <= 0 {
		ttl = DefaultCapacityCacheTTL
	}
	return &Client{
		baseURL:       opts.BaseURL,
		http:          &http.Client{Timeout: timeout},
		capacityCache: expirable.NewLRU[string, int](size, nil, ttl),
	}
}

// ListWarehouses fetches all warehouses and enriches each with the result of
// its capacity probe. A failed probe leaves that warehouse without an
// override; a failed listing fails the whole call.
func (c *Client) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	var records []wire.Record
	if err := c.do(ctx, OpListWarehouses, http.MethodGet, PathWarehouses, nil, &records); err != nil {
		return nil, err
	}

	warehouses := make([]domain.Warehouse, len(records))
	var wg sync.WaitGroup
	for i, rec := range records {
		warehouses[i] = wire.ToCanonicalWarehouse(rec)

		wg.Add(1)
		go func(w *domain.Warehouse) {
			defer wg.Done()
			if used, ok := c.warehouseCapacity(ctx, w.ID); ok {
				w.Capacity = domain.IntPtr(used)
			}
		}(&warehouses[i])
	}
	wg.Wait()

	return warehouses, nil
}

// warehouseCapacity probes GET /warehouses/{id}/capacity through the TTL
// cache. A miss that fails remotely reports ok=false so the caller omits the
// override instead of failing the listing.
func (c *Client) warehouseCapacity(ctx context.Context, id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	if used, ok := c.capacityCache.Get(id); ok {
		metrics.CapacityCacheHits.Inc()
		return used, true
	}
	metrics.CapacityCacheMisses.Inc()

	var used int
	path := fmt.Sprintf("%s/%s/capacity", PathWarehouses, id)
	if err := c.do(ctx, OpWarehouseCapacity, http.MethodGet, path, nil, &used); err != nil {
		logger.FromContext(ctx).Debug("Capacity probe failed, returning warehouse without override",
			"warehouse_id", id, "error", err)
		return 0, false
	}

	c.capacityCache.Add(id, used)
	return used, true
}

// CreateWarehouse creates a warehouse and returns the server's record.
func (c *Client) CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	var rec wire.Record
	if err := c.do(ctx, OpCreateWarehouse, http.MethodPost, PathWarehouses, w, &rec); err != nil {
		return domain.Warehouse{}, err
	}
	return wire.ToCanonicalWarehouse(rec), nil
}

// UpdateWarehouse updates a warehouse and returns the server's record.
func (c *Client) UpdateWarehouse(ctx context.Context, id string, w domain.Warehouse) (domain.Warehouse, error) {
	var rec wire.Record
	path := PathWarehouses + "/" + id
	if err := c.do(ctx, OpUpdateWarehouse, http.MethodPut, path, w, &rec); err != nil {
		return domain.Warehouse{}, err
	}
	c.capacityCache.Remove(id)
	return wire.ToCanonicalWarehouse(rec), nil
}

// DeleteWarehouse deletes a warehouse. The server is responsible for
// cascading to the warehouse's inventory.
func (c *Client) DeleteWarehouse(ctx context.Context, id string) error {
	if err := c.do(ctx, OpDeleteWarehouse, http.MethodDelete, PathWarehouses+"/"+id, nil, nil); err != nil {
		return err
	}
	c.capacityCache.Remove(id)
	return nil
}

// ListInventory fetches and normalizes the full item collection.
func (c *Client) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	var records []wire.Record
	if err := c.do(ctx, OpListInventory, http.MethodGet, PathInventory, nil, &records); err != nil {
		return nil, err
	}

	items := make([]domain.InventoryItem, len(records))
	for i, rec := range records {
		items[i] = wire.ToCanonical(rec)
	}
	return items, nil
}

// CreateItem creates an inventory item and returns the server's record.
func (c *Client) CreateItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	var rec wire.Record
	if err := c.do(ctx, OpCreateItem, http.MethodPost, PathInventory, wire.ToWire(item), &rec); err != nil {
		return domain.InventoryItem{}, err
	}
	return wire.ToCanonical(rec), nil
}

// UpdateItem updates an inventory item and returns the server's record.
func (c *Client) UpdateItem(ctx context.Context, id string, item domain.InventoryItem) (domain.InventoryItem, error) {
	var rec wire.Record
	path := PathInventory + "/" + id
	if err := c.do(ctx, OpUpdateItem, http.MethodPut, path, wire.ToWire(item), &rec); err != nil {
		return domain.InventoryItem{}, err
	}
	return wire.ToCanonical(rec), nil
}

// DeleteItem deletes an inventory item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, OpDeleteItem, http.MethodDelete, PathInventory+"/"+id, nil, nil)
}

// Transfer executes a quantity move on the server. The response body is
// ignored; the caller reconciles by re-listing the inventory.
func (c *Client) Transfer(ctx context.Context, req domain.TransferRequest) error {
	return c.do(ctx, OpTransfer, http.MethodPost, PathTransfer, req, nil)
}

// do performs one instrumented call. out, when non-nil, receives the decoded
// 2xx response body.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Err: err}
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(op, StatusTransportError).Inc()
		logger.FromContext(ctx).Warn("Gateway call failed", "operation", op, "error", err)
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	metrics.GatewayRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.FromContext(ctx).Warn("Gateway call returned non-2xx",
			"operation", op, "status", resp.StatusCode)
		return &FetchError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
