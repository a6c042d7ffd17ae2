// Package pagination normalizes page sizes and sort orders for list
// endpoints.
package pagination

import "fmt"

// Limits bounds the page size a caller may request. A zero Max means
// unbounded.
type Limits struct {
	Default int
	Max     int
}

// Clamp resolves a requested page size against the limits. Zero and
// negative requests take the default, oversized requests take Max, and
// the result is always at least one row.
func (l Limits) Clamp(requested int32) int {
	size := int(requested)
	if size <= 0 {
		size = l.Default
	}
	if l.Max > 0 && size > l.Max {
		size = l.Max
	}
	if size < 1 {
		return 1
	}
	return size
}

// Order lists the order_by clauses an endpoint accepts.
type Order struct {
	Default string
	Allowed []string
}

// Normalize resolves a requested order_by clause. Empty requests take
// the default; anything not in Allowed is rejected.
func (o Order) Normalize(requested string) (string, error) {
	if requested == "" {
		return o.Default, nil
	}
	for _, allowed := range o.Allowed {
		if requested == allowed {
			return requested, nil
		}
	}
	return "", fmt.Errorf("invalid order_by: %s", requested)
}
