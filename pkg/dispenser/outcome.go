package dispenser

import "fmt"

// OutcomeKind classifies how an order was resolved.
type OutcomeKind string

const (
	// OutcomePrepared means every requirement was deducted.
	OutcomePrepared OutcomeKind = "prepared"
	// OutcomeUnavailable means a required resource is unknown to the machine.
	OutcomeUnavailable OutcomeKind = "unavailable"
	// OutcomeInsufficient means a known resource does not have enough quantity.
	OutcomeInsufficient OutcomeKind = "insufficient"
)

// Outcome is the result for a single order.
type Outcome struct {
	Order    string      `json:"order"`
	Kind     OutcomeKind `json:"kind"`
	Resource Resource    `json:"resource,omitempty"`
}

// Prepared builds a successful outcome.
func Prepared(order string) Outcome {
	return Outcome{Order: order, Kind: OutcomePrepared}
}

// Unavailable builds a rejection naming an unknown resource.
func Unavailable(order string, r Resource) Outcome {
	return Outcome{Order: order, Kind: OutcomeUnavailable, Resource: r}
}

// Insufficient builds a rejection naming an under-stocked resource.
func Insufficient(order string, r Resource) Outcome {
	return Outcome{Order: order, Kind: OutcomeInsufficient, Resource: r}
}

// String renders the outcome as the machine reports it.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomePrepared:
		return o.Order + " is prepared"
	case OutcomeUnavailable:
		return fmt.Sprintf("%s cannot be prepared because %s is not available", o.Order, o.Resource)
	case OutcomeInsufficient:
		return fmt.Sprintf("%s cannot be prepared because item %s is not sufficient", o.Order, o.Resource)
	default:
		return o.Order + " has an unknown outcome"
	}
}

// Strings renders each outcome.
func Strings(outcomes []Outcome) []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o.String())
	}
	return out
}
