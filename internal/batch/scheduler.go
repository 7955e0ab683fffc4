package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dispenser/internal/pool"
	"dispenser/pkg/dispenser"
)

// Inventory is the live stock a batch runs against.
type Inventory interface {
	Transact(fn func(working dispenser.Stock) (dispenser.Stock, error)) error
}

// Submitter runs tasks with bounded parallelism.
type Submitter interface {
	Submit(ctx context.Context, task pool.Task) error
}

// Result is the outcome of one processed batch.
type Result struct {
	BatchID  string              `json:"batch_id"`
	Outcomes []dispenser.Outcome `json:"outcomes"`
	Stock    dispenser.Stock     `json:"stock"`
}

// Config wires dependencies for a Scheduler.
type Config struct {
	Inventory  Inventory
	Pool       Submitter
	Observer   Observer
	NewBatchID func() string
}

// Scheduler processes order batches against a shared inventory.
type Scheduler struct {
	inventory  Inventory
	pool       Submitter
	observer   Observer
	newBatchID func() string
	evaluate   func(dispenser.Stock, dispenser.Order) dispenser.Decision
}

// New builds a Scheduler from cfg.
func New(cfg Config) *Scheduler {
	if cfg.NewBatchID == nil {
		cfg.NewBatchID = uuid.NewString
	}
	observer := cfg.Observer
	if observer == nil {
		observer = Observers(nil)
	}
	return &Scheduler{
		inventory:  cfg.Inventory,
		pool:       cfg.Pool,
		observer:   observer,
		newBatchID: cfg.NewBatchID,
		evaluate:   dispenser.Evaluate,
	}
}

// Process resolves every order in the batch and publishes the resulting stock.
//
// The working stock is seeded from the inventory once. Each order is one pool task whose
// check and deduction run under a single batch-wide lock, so the admitted set is
// consistent with some serial order of the batch. Which of several contending orders wins
// depends on scheduling. A fault aborts the batch without publishing.
func (s *Scheduler) Process(ctx context.Context, orders []dispenser.Order) (Result, error) {
	if s.inventory == nil || s.pool == nil {
		return Result{}, errors.New("scheduler is not configured")
	}
	if err := ValidateOrders(orders); err != nil {
		return Result{}, err
	}
	batchID := s.newBatchID()
	s.observer.OnBatchStart(batchID, len(orders))

	var res Result
	err := s.inventory.Transact(func(working dispenser.Stock) (dispenser.Stock, error) {
		r := &run{
			batchID:  batchID,
			stock:    working,
			outcomes: make([]dispenser.Outcome, 0, len(orders)),
			evaluate: s.evaluate,
			observer: s.observer,
		}
		r.dispatch(ctx, s.pool, orders)
		if r.fault != nil {
			return nil, r.fault
		}
		res = Result{BatchID: batchID, Outcomes: r.outcomes, Stock: working.Clone()}
		return working, nil
	})
	if err != nil {
		var fault *ConcurrencyFault
		if errors.As(err, &fault) {
			s.observer.OnFault(batchID, fault)
		}
		return Result{}, err
	}
	s.observer.OnBatchDone(batchID, res)
	return res, nil
}

// dispatch submits one task per order and waits for all of them.
func (r *run) dispatch(ctx context.Context, workers Submitter, orders []dispenser.Order) {
	for _, o := range orders {
		r.wg.Add(1)
		if err := workers.Submit(ctx, r.task(o)); err != nil {
			r.wg.Done()
			r.fail(o.Name, fmt.Errorf("submit order: %w", err))
			break
		}
	}
	r.wg.Wait()
}
