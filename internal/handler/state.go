package handler

import (
	"net/http"

	"github.com/tmcgann/stockdeck/internal/capacity"
	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/query"
	"github.com/tmcgann/stockdeck/internal/store"
)

// WarehouseView is a warehouse decorated with its utilization figures.
type WarehouseView struct {
	domain.Warehouse
	Used    int     `json:"used"`
	Max     int     `json:"max"`
	Percent float64 `json:"percent"`
	AtRisk  bool    `json:"atRisk"`
}

// StateResponse is the read-only snapshot the rendering layer draws from.
type StateResponse struct {
	Warehouses []WarehouseView        `json:"warehouses"`
	Items      []domain.InventoryItem `json:"items"`
	View       query.Page             `json:"view"`
	Filter     query.Filter           `json:"filter"`
}

func warehouseViews(warehouses []domain.Warehouse) []WarehouseView {
	out := make([]WarehouseView, len(warehouses))
	for i, w := range warehouses {
		used, max := capacity.UsedMax(w)
		out[i] = WarehouseView{
			Warehouse: w,
			Used:      used,
			Max:       max,
			Percent:   capacity.UtilizationPercent(used, max),
			AtRisk:    capacity.IsAtRisk(w),
		}
	}
	return out
}

// HandleState returns the full snapshot: warehouses with utilization, the raw
// item collection, and the filtered paginated view.
func HandleState(st *store.Store, view *query.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, StateResponse{
			Warehouses: warehouseViews(st.Warehouses()),
			Items:      st.Items(),
			View:       view.Snapshot(),
			Filter:     view.Filter(),
		})
	}
}

// DashboardResponse aggregates utilization across all warehouses.
type DashboardResponse struct {
	WarehouseCount int              `json:"warehouseCount"`
	ItemCount      int              `json:"itemCount"`
	Totals         capacity.Summary `json:"totals"`
	AtRisk         []WarehouseView  `json:"atRisk"`
}

// HandleDashboard returns the aggregate figures for the overview screen.
func HandleDashboard(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouses := st.Warehouses()
		respondJSON(w, http.StatusOK, DashboardResponse{
			WarehouseCount: len(warehouses),
			ItemCount:      len(st.Items()),
			Totals:         capacity.Totals(warehouses),
			AtRisk:         warehouseViews(capacity.AtRisk(warehouses)),
		})
	}
}
