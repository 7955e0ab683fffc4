package dispenser

// Decision is the allocator verdict for one order.
type Decision struct {
	Admit      bool
	Outcome    Outcome
	Deductions []Requirement
}

// Evaluate decides whether stock can serve order. It never mutates stock.
//
// Requirements are walked in order. The first unknown resource rejects the order
// immediately. The first under-stocked resource is kept as a fallback while the walk
// continues, since an unknown resource later in the list takes precedence.
func Evaluate(stock Stock, order Order) Decision {
	var short Resource
	for _, r := range order.Requirements {
		available, ok := stock[r.Resource]
		if !ok {
			return Decision{Outcome: Unavailable(order.Name, r.Resource)}
		}
		if r.Quantity > available && short == "" {
			short = r.Resource
		}
	}
	if short != "" {
		return Decision{Outcome: Insufficient(order.Name, short)}
	}
	deductions := make([]Requirement, len(order.Requirements))
	copy(deductions, order.Requirements)
	return Decision{Admit: true, Outcome: Prepared(order.Name), Deductions: deductions}
}
