package dispenser

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Resource names an ingredient held by the machine.
type Resource string

// Quantity is a non-negative ingredient amount.
type Quantity uint64

// lowStockPercent is the share of the initial quantity at or below which a resource is low.
const lowStockPercent = 20

// ErrOversell reports a deduction that would drive a quantity below zero.
var ErrOversell = errors.New("deduction exceeds available quantity")

// ErrOverflow reports an addition whose result does not fit in a Quantity.
var ErrOverflow = errors.New("quantity overflow")

// Requirement is the quantity of one resource needed by an order.
type Requirement struct {
	Resource Resource `json:"resource"`
	Quantity Quantity `json:"quantity"`
}

// Order is a named request for several resources. Requirements keep submission order.
type Order struct {
	Name         string        `json:"name"`
	Requirements []Requirement `json:"requirements"`
}

// Validate reports structural problems that must be rejected before scheduling.
func (o Order) Validate() error {
	if o.Name == "" {
		return errors.New("order name is required")
	}
	if len(o.Requirements) == 0 {
		return fmt.Errorf("order %q requires no resources", o.Name)
	}
	seen := make(map[Resource]struct{}, len(o.Requirements))
	for _, r := range o.Requirements {
		if r.Resource == "" {
			return fmt.Errorf("order %q has an unnamed resource", o.Name)
		}
		if r.Quantity == 0 {
			return fmt.Errorf("order %q requires zero of %s", o.Name, r.Resource)
		}
		if _, ok := seen[r.Resource]; ok {
			return fmt.Errorf("order %q lists %s more than once", o.Name, r.Resource)
		}
		seen[r.Resource] = struct{}{}
	}
	return nil
}

// Stock maps resources to available quantities.
type Stock map[Resource]Quantity

// Clone returns an independent copy.
func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Has reports whether the resource is known.
func (s Stock) Has(r Resource) bool {
	_, ok := s[r]
	return ok
}

// Resources returns the known resource names sorted.
func (s Stock) Resources() []Resource {
	names := make([]Resource, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Deduct subtracts every requirement or none of them.
func (s Stock) Deduct(reqs []Requirement) error {
	needed := make(map[Resource]Quantity, len(reqs))
	for _, r := range reqs {
		needed[r.Resource] += r.Quantity
	}
	for name, qty := range needed {
		available, ok := s[name]
		if !ok || available < qty {
			return fmt.Errorf("%w: %s", ErrOversell, name)
		}
	}
	for name, qty := range needed {
		s[name] -= qty
	}
	return nil
}

// Add increases quantities, adopting unknown resources. Either every quantity is
// added or, on overflow, none is.
func (s Stock) Add(delta Stock) error {
	for _, name := range delta.Resources() {
		if s[name] > math.MaxUint64-delta[name] {
			return fmt.Errorf("%w: %s", ErrOverflow, name)
		}
	}
	for name, qty := range delta {
		s[name] += qty
	}
	return nil
}

// Threshold returns floor(20% of initial) without floating point rounding.
func Threshold(initial Quantity) Quantity {
	return initial/100*lowStockPercent + initial%100*lowStockPercent/100
}

// Submission is one batch request. Outlets and Totals initialize an empty machine and
// refill a populated one; Orders are served afterwards.
type Submission struct {
	Outlets int
	Totals  Stock
	Orders  []Order
}
