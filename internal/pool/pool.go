package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Submit after Shutdown.
var ErrClosed = errors.New("pool is closed")

// Task is a unit of work run by a pool worker.
type Task func()

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Pool runs tasks on a fixed set of workers that live until Shutdown.
type Pool struct {
	workers int
	onPanic func(error)

	workCh   chan Task
	stopCh   chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
}

// New starts a pool with the given number of workers, at least one.
func New(workers int) *Pool {
	return NewWithPanicHandler(workers, nil)
}

// NewWithPanicHandler starts a pool that reports recovered task panics to onPanic.
func NewWithPanicHandler(workers int, onPanic func(error)) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		workers: workers,
		onPanic: onPanic,
		workCh:  make(chan Task),
		stopCh:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Submit hands task to an idle worker, blocking while every worker is busy.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopCh:
		return ErrClosed
	case p.workCh <- task:
		return nil
	}
}

// Shutdown stops accepting work and waits for running tasks to finish.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.mu.Lock()
		p.closed = true
		close(p.workCh)
		p.mu.Unlock()
	})
	wait := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(wait)
	}()
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Size returns the worker count for a machine: min(outlets, cpus-1), at least 1.
func Size(outlets, cpus int) int {
	n := min(outlets, cpus-1)
	if n < 1 {
		return 1
	}
	return n
}

// worker consumes tasks until the work channel closes.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.workCh {
		p.run(task)
	}
}

// run executes one task, keeping the worker alive if it panics.
func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(&PanicError{Value: r})
		}
	}()
	task()
}
