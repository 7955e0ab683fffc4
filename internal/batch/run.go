package batch

import (
	"sync"

	"dispenser/internal/pool"
	"dispenser/pkg/dispenser"
)

// run is the state of one batch in flight. mu serializes every check-and-deduct.
type run struct {
	batchID  string
	evaluate func(dispenser.Stock, dispenser.Order) dispenser.Decision
	observer Observer

	wg       sync.WaitGroup
	mu       sync.Mutex
	stock    dispenser.Stock
	outcomes []dispenser.Outcome
	fault    *ConcurrencyFault
}

// task wraps an order so that a panic becomes a batch fault.
func (r *run) task(o dispenser.Order) pool.Task {
	return func() {
		defer r.wg.Done()
		defer func() {
			if v := recover(); v != nil {
				r.fail(o.Name, &pool.PanicError{Value: v})
			}
		}()
		if outcome, ok := r.admit(o); ok {
			r.observer.OnOutcome(r.batchID, outcome)
		}
	}
}

// admit is the critical section: evaluate against the working stock and deduct on admit.
func (r *run) admit(o dispenser.Order) (dispenser.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fault != nil {
		return dispenser.Outcome{}, false
	}
	decision := r.evaluate(r.stock, o)
	if decision.Admit {
		if err := r.stock.Deduct(decision.Deductions); err != nil {
			r.fault = &ConcurrencyFault{BatchID: r.batchID, Order: o.Name, Err: err}
			return dispenser.Outcome{}, false
		}
	}
	r.outcomes = append(r.outcomes, decision.Outcome)
	return decision.Outcome, true
}

// fail records the first fault of the batch.
func (r *run) fail(order string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fault == nil {
		r.fault = &ConcurrencyFault{BatchID: r.batchID, Order: order, Err: err}
	}
}
