package api

import (
	"context"
	"net/http"

	"dispenser/internal/batch"
	"dispenser/pkg/dispenser"
)

// maxBodyBytes bounds submission and refill payloads.
const maxBodyBytes = 1 << 20

// Machine is the dispenser surface served over HTTP.
type Machine interface {
	ProcessData(ctx context.Context, sub dispenser.Submission) (batch.Result, error)
	Initialized() bool
	Refill(delta dispenser.Stock) (dispenser.Stock, error)
	AllItemIndicator() dispenser.Stock
	LowItemIndicator() []dispenser.Resource
}

// Config wires dependencies for the HTTP handler.
type Config struct {
	Machine Machine
	// OnRefill, when set, receives the stock after every successful refill.
	OnRefill func(dispenser.Stock)
}

// NewHandler builds an HTTP handler for the dispenser API.
func NewHandler(cfg Config) http.Handler {
	h := &handler{machine: cfg.Machine, onRefill: cfg.OnRefill}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/batches", h.handleBatches)
	mux.HandleFunc("/v1/refill", h.handleRefill)
	mux.HandleFunc("/v1/items", h.handleItems)
	mux.HandleFunc("/v1/items/low", h.handleLowItems)
	return mux
}

type handler struct {
	machine  Machine
	onRefill func(dispenser.Stock)
}
