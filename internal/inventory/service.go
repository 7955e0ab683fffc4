package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dispenser/pkg/dispenser"
)

var (
	// ErrAlreadyInitialized is returned when Initialize runs on a filled machine.
	ErrAlreadyInitialized = errors.New("inventory already initialized")
	// ErrInvalidOutlets is returned for an outlet count below one.
	ErrInvalidOutlets = errors.New("outlet count must be at least 1")
	// ErrEmptyStock is returned when the initial fill names no resources.
	ErrEmptyStock = errors.New("initial stock names no resources")
)

// Service guards the live stock. Every operation is one critical section.
type Service struct {
	mu         sync.Mutex
	stock      dispenser.Stock
	thresholds dispenser.Stock
	outlets    int
}

// New creates an empty Service.
func New() *Service {
	return &Service{
		stock:      dispenser.Stock{},
		thresholds: dispenser.Stock{},
	}
}

// Initialize performs the first fill and fixes outlets and thresholds.
func (s *Service) Initialize(outlets int, quantities dispenser.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(outlets, quantities)
}

// Fill initializes an empty service or refills a populated one.
func (s *Service) Fill(outlets int, quantities dispenser.Stock) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outlets == 0 {
		if err := s.initializeLocked(outlets, quantities); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.stock.Add(quantities); err != nil {
		return false, err
	}
	return false, nil
}

// Refill adds delta to the stock and returns the updated snapshot.
// Unknown resources are adopted with threshold 0. An overflowing delta is rejected whole.
func (s *Service) Refill(delta dispenser.Stock) (dispenser.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.stock.Add(delta); err != nil {
		return nil, err
	}
	return s.stock.Clone(), nil
}

// Snapshot returns a copy of the current quantities.
func (s *Service) Snapshot() dispenser.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock.Clone()
}

// Thresholds returns a copy of the low-stock thresholds.
func (s *Service) Thresholds() dispenser.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thresholds.Clone()
}

// LowStock returns the sorted resources at or below their threshold.
func (s *Service) LowStock() []dispenser.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	low := make([]dispenser.Resource, 0)
	for name, qty := range s.stock {
		if qty <= s.thresholds[name] {
			low = append(low, name)
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i] < low[j] })
	return low
}

// Outlets returns the outlet count fixed at initialization, or 0.
func (s *Service) Outlets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outlets
}

// Initialized reports whether the first fill happened.
func (s *Service) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outlets > 0
}

// Transact holds the lock for the duration of fn. fn receives a private working copy;
// its returned stock replaces the live stock wholesale unless fn fails.
func (s *Service) Transact(fn func(working dispenser.Stock) (dispenser.Stock, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.stock.Clone())
	if err != nil {
		return err
	}
	if next == nil {
		return fmt.Errorf("transaction returned no stock")
	}
	s.stock = next.Clone()
	return nil
}

func (s *Service) initializeLocked(outlets int, quantities dispenser.Stock) error {
	if s.outlets > 0 {
		return ErrAlreadyInitialized
	}
	if outlets < 1 {
		return ErrInvalidOutlets
	}
	if len(quantities) == 0 {
		return ErrEmptyStock
	}
	s.stock = quantities.Clone()
	s.thresholds = make(dispenser.Stock, len(quantities))
	for name, qty := range quantities {
		s.thresholds[name] = dispenser.Threshold(qty)
	}
	s.outlets = outlets
	return nil
}
