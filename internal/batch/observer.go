package batch

import "dispenser/pkg/dispenser"

// Observer receives batch lifecycle events. Calls may come from pool workers.
type Observer interface {
	OnBatchStart(batchID string, orders int)
	OnOutcome(batchID string, outcome dispenser.Outcome)
	OnBatchDone(batchID string, res Result)
	OnFault(batchID string, fault *ConcurrencyFault)
}

// Observers fans events out to every non-nil observer.
type Observers []Observer

func (o Observers) OnBatchStart(batchID string, orders int) {
	for _, obs := range o {
		if obs != nil {
			obs.OnBatchStart(batchID, orders)
		}
	}
}

func (o Observers) OnOutcome(batchID string, outcome dispenser.Outcome) {
	for _, obs := range o {
		if obs != nil {
			obs.OnOutcome(batchID, outcome)
		}
	}
}

func (o Observers) OnBatchDone(batchID string, res Result) {
	for _, obs := range o {
		if obs != nil {
			obs.OnBatchDone(batchID, res)
		}
	}
}

func (o Observers) OnFault(batchID string, fault *ConcurrencyFault) {
	for _, obs := range o {
		if obs != nil {
			obs.OnFault(batchID, fault)
		}
	}
}
