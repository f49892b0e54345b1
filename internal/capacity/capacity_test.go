package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmcgann/stockdeck/internal/domain"
)

func TestUsedMax(t *testing.T) {
	tests := []struct {
		name     string
		w        domain.Warehouse
		wantUsed int
		wantMax  int
	}{
		{
			name:     "both fields present",
			w:        domain.Warehouse{Capacity: domain.IntPtr(40), MaximumCapacity: domain.IntPtr(100)},
			wantUsed: 40,
			wantMax:  100,
		},
		{
			name:     "missing ceiling defaults to used",
			w:        domain.Warehouse{Capacity: domain.IntPtr(40)},
			wantUsed: 40,
			wantMax:  40,
		},
		{
			name:     "missing usage defaults to zero",
			w:        domain.Warehouse{MaximumCapacity: domain.IntPtr(500)},
			wantUsed: 0,
			wantMax:  500,
		},
		{
			name:     "both absent",
			w:        domain.Warehouse{},
			wantUsed: 0,
			wantMax:  0,
		},
		{
			name:     "explicit zero ceiling is kept, not treated as absent",
			w:        domain.Warehouse{Capacity: domain.IntPtr(10), MaximumCapacity: domain.IntPtr(0)},
			wantUsed: 10,
			wantMax:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			used, max := UsedMax(tt.w)
			assert.Equal(t, tt.wantUsed, used)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}

func TestUtilizationPercent(t *testing.T) {
	assert.Equal(t, 0.0, UtilizationPercent(50, 0), "zero ceiling yields zero, not a division panic")
	assert.Equal(t, 0.0, UtilizationPercent(50, -10))
	assert.Equal(t, 50.0, UtilizationPercent(50, 100))
	assert.Equal(t, 100.0, UtilizationPercent(120, 100), "overfull warehouses clamp at 100 for display")
}

func TestIsAtRisk(t *testing.T) {
	t.Run("at threshold is at risk", func(t *testing.T) {
		w := domain.Warehouse{Capacity: domain.IntPtr(85), MaximumCapacity: domain.IntPtr(100)}
		assert.True(t, IsAtRisk(w))
	})

	t.Run("below threshold is not", func(t *testing.T) {
		w := domain.Warehouse{Capacity: domain.IntPtr(84), MaximumCapacity: domain.IntPtr(100)}
		assert.False(t, IsAtRisk(w))
	})

	t.Run("no ceiling means full but never flagged when zero", func(t *testing.T) {
		// used=0, max=0: max > 0 fails, so not at risk.
		assert.False(t, IsAtRisk(domain.Warehouse{}))
	})

	t.Run("no ceiling with usage means 100 percent", func(t *testing.T) {
		w := domain.Warehouse{Capacity: domain.IntPtr(40)}
		assert.True(t, IsAtRisk(w))
	})
}

func TestTotals(t *testing.T) {
	warehouses := []domain.Warehouse{
		{Capacity: domain.IntPtr(40), MaximumCapacity: domain.IntPtr(100)},
		{Capacity: domain.IntPtr(60), MaximumCapacity: domain.IntPtr(100)},
		{Capacity: domain.IntPtr(25)}, // no ceiling: contributes 25/25
	}

	s := Totals(warehouses)
	assert.Equal(t, 125, s.Used)
	assert.Equal(t, 225, s.Max)
	assert.InDelta(t, 55.55, s.Percent, 0.01)
	assert.Equal(t, 100, s.Headroom)
}

func TestTotalsEmpty(t *testing.T) {
	s := Totals(nil)
	assert.Equal(t, 0, s.Used)
	assert.Equal(t, 0, s.Max)
	assert.Equal(t, 0.0, s.Percent)
	assert.Equal(t, 0, s.Headroom)
}

func TestAtRiskPreservesOrder(t *testing.T) {
	warehouses := []domain.Warehouse{
		{ID: "a", Capacity: domain.IntPtr(90), MaximumCapacity: domain.IntPtr(100)},
		{ID: "b", Capacity: domain.IntPtr(10), MaximumCapacity: domain.IntPtr(100)},
		{ID: "c", Capacity: domain.IntPtr(86), MaximumCapacity: domain.IntPtr(100)},
	}

	flagged := AtRisk(warehouses)
	assert.Len(t, flagged, 2)
	assert.Equal(t, "a", flagged[0].ID)
	assert.Equal(t, "c", flagged[1].ID)
}
