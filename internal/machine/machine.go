package machine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"dispenser/internal/batch"
	"dispenser/internal/inventory"
	"dispenser/internal/pool"
	"dispenser/pkg/dispenser"
)

var (
	// ErrClosed is returned once the machine has been closed.
	ErrClosed = errors.New("machine is closed")
	// ErrNotInitialized is returned when orders arrive before the first fill.
	ErrNotInitialized = errors.New("machine is not initialized")
)

// Config wires optional dependencies for a Machine.
type Config struct {
	// CPUs overrides the host parallelism used to size the pool.
	CPUs       int
	Observer   batch.Observer
	NewBatchID func() string
}

// Machine serves order batches from a shared inventory.
type Machine struct {
	inventory *inventory.Service
	cfg       Config

	mu        sync.Mutex
	pool      *pool.Pool
	scheduler *batch.Scheduler
	closed    bool
}

// New creates an empty machine. The worker pool is created on initialization.
func New(cfg Config) *Machine {
	if cfg.CPUs <= 0 {
		cfg.CPUs = runtime.NumCPU()
	}
	return &Machine{inventory: inventory.New(), cfg: cfg}
}

// Initialize fills an empty machine and sizes its worker pool.
func (m *Machine) Initialize(outlets int, totals dispenser.Stock) error {
	if err := m.inventory.Initialize(outlets, totals); err != nil {
		return err
	}
	_, err := m.ensureScheduler()
	return err
}

// ProcessData fills or refills the machine and then serves the submitted orders.
// The fill is not applied when ctx is already done or the machine is closed. Once
// applied it stands even if serving the orders fails afterwards.
func (m *Machine) ProcessData(ctx context.Context, sub dispenser.Submission) (batch.Result, error) {
	if err := batch.ValidateOrders(sub.Orders); err != nil {
		return batch.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return batch.Result{}, err
	}
	if m.isClosed() {
		return batch.Result{}, ErrClosed
	}
	if _, err := m.inventory.Fill(sub.Outlets, sub.Totals); err != nil {
		return batch.Result{}, fmt.Errorf("fill machine: %w", err)
	}
	scheduler, err := m.ensureScheduler()
	if err != nil {
		return batch.Result{}, err
	}
	return scheduler.Process(ctx, sub.Orders)
}

// Process serves orders against the current stock without refilling.
func (m *Machine) Process(ctx context.Context, orders []dispenser.Order) (batch.Result, error) {
	scheduler, err := m.ensureScheduler()
	if err != nil {
		return batch.Result{}, err
	}
	return scheduler.Process(ctx, orders)
}

// Initialized reports whether the first submission has filled the machine.
func (m *Machine) Initialized() bool {
	return m.inventory.Initialized()
}

// Refill adds delta to the stock and returns the updated quantities.
func (m *Machine) Refill(delta dispenser.Stock) (dispenser.Stock, error) {
	return m.inventory.Refill(delta)
}

// AllItemIndicator returns every resource with its current quantity.
func (m *Machine) AllItemIndicator() dispenser.Stock {
	return m.inventory.Snapshot()
}

// LowItemIndicator returns the resources at or below their low-stock threshold.
func (m *Machine) LowItemIndicator() []dispenser.Resource {
	return m.inventory.LowStock()
}

// Thresholds returns the low-stock thresholds.
func (m *Machine) Thresholds() dispenser.Stock {
	return m.inventory.Thresholds()
}

// Workers returns the pool size, or 0 before initialization.
func (m *Machine) Workers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool == nil {
		return 0
	}
	return m.pool.Workers()
}

// Close stops the worker pool.
func (m *Machine) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	p := m.pool
	m.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Shutdown(ctx)
}

func (m *Machine) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ensureScheduler builds the pool and scheduler once, after initialization.
func (m *Machine) ensureScheduler() (*batch.Scheduler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.scheduler != nil {
		return m.scheduler, nil
	}
	outlets := m.inventory.Outlets()
	if outlets == 0 {
		return nil, ErrNotInitialized
	}
	m.pool = pool.New(pool.Size(outlets, m.cfg.CPUs))
	m.scheduler = batch.New(batch.Config{
		Inventory:  m.inventory,
		Pool:       m.pool,
		Observer:   m.cfg.Observer,
		NewBatchID: m.cfg.NewBatchID,
	})
	return m.scheduler, nil
}
