package batch

import (
	"fmt"

	"dispenser/pkg/dispenser"
)

// ValidateOrders rejects malformed orders and duplicate order names.
func ValidateOrders(orders []dispenser.Order) error {
	var issues []OrderIssue
	seen := make(map[string]int, len(orders))
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			issues = append(issues, OrderIssue{Index: i, Order: o.Name, Message: err.Error()})
			continue
		}
		if first, ok := seen[o.Name]; ok {
			issues = append(issues, OrderIssue{
				Index:   i,
				Order:   o.Name,
				Message: fmt.Sprintf("order %q already submitted at index %d", o.Name, first),
			})
			continue
		}
		seen[o.Name] = i
	}
	if len(issues) > 0 {
		return &InvalidBatchError{Issues: issues}
	}
	return nil
}
