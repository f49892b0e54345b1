package domain

// Warehouse represents a storage site tracked by the console.
//
// Capacity is the number of units currently stored ("used units"), not the
// ceiling. Both capacity fields are pointers because the remote service omits
// them on some records, and absence means something different from zero to
// the capacity evaluator.
type Warehouse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Location        string `json:"location"`
	Capacity        *int   `json:"capacity,omitempty"`
	MaximumCapacity *int   `json:"maximumCapacity,omitempty"`
}

// Clone returns a copy of the warehouse with its own capacity pointers so
// snapshot readers can never mutate store-owned state.
func (w Warehouse) Clone() Warehouse {
	c := w
	if w.Capacity != nil {
		v := *w.Capacity
		c.Capacity = &v
	}
	if w.MaximumCapacity != nil {
		v := *w.MaximumCapacity
		c.MaximumCapacity = &v
	}
	return c
}

// IntPtr is a convenience for building optional capacity values.
func IntPtr(v int) *int { return &v }
