// Package capacity computes utilization figures for warehouses.
//
// All functions are pure and total: a warehouse already in violation of its
// ceiling is reported (clamped for display), never rejected.
package capacity

import "github.com/tmcgann/stockdeck/internal/domain"

// AtRiskThresholdPercent is the utilization level at which a warehouse is
// flagged on the watchlist. Fixed, not configurable.
const AtRiskThresholdPercent = 85.0

// UsedMax returns the used units and ceiling for a warehouse.
//
// A warehouse without an explicit ceiling is treated as already full: the
// ceiling defaults to current usage. That is a deliberate conservative
// fallback, not a bug.
func UsedMax(w domain.Warehouse) (used, max int) {
	if w.Capacity != nil {
		used = *w.Capacity
	}
	max = used
	if w.MaximumCapacity != nil {
		max = *w.MaximumCapacity
	}
	return used, max
}

// UtilizationPercent returns used/max as a percentage, clamped to 100 for
// display even when upstream inconsistency pushed used past the ceiling.
func UtilizationPercent(used, max int) float64 {
	if max <= 0 {
		return 0
	}
	percent := float64(used) / float64(max) * 100
	if percent > 100 {
		return 100
	}
	return percent
}

// IsAtRisk reports whether the warehouse has reached the watchlist threshold.
func IsAtRisk(w domain.Warehouse) bool {
	used, max := UsedMax(w)
	return max > 0 && UtilizationPercent(used, max) >= AtRiskThresholdPercent
}

// Summary aggregates utilization across a warehouse collection.
type Summary struct {
	Used     int     `json:"used"`
	Max      int     `json:"max"`
	Percent  float64 `json:"percent"`
	Headroom int     `json:"headroom"`
}

// Totals sums used and ceiling units across all warehouses; the aggregate
// percentage uses the same clamped formula over the sums.
func Totals(warehouses []domain.Warehouse) Summary {
	var s Summary
	for _, w := range warehouses {
		used, max := UsedMax(w)
		s.Used += used
		s.Max += max
	}
	s.Percent = UtilizationPercent(s.Used, s.Max)
	if s.Max > s.Used {
		s.Headroom = s.Max - s.Used
	}
	return s
}

// AtRisk filters the collection down to warehouses past the threshold,
// preserving collection order.
func AtRisk(warehouses []domain.Warehouse) []domain.Warehouse {
	var flagged []domain.Warehouse
	for _, w := range warehouses {
		if IsAtRisk(w) {
			flagged = append(flagged, w)
		}
	}
	return flagged
}
