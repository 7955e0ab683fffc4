// Package apitest runs the dispenser API in-process for tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"dispenser/internal/api"
	"dispenser/internal/machine"
	"dispenser/pkg/dispenser"
)

// ServerConfig wires dependencies for StartServer.
type ServerConfig struct {
	// Machine is served when set; otherwise a fresh machine is created with CPUs.
	Machine  *machine.Machine
	CPUs     int
	OnRefill func(dispenser.Stock)
}

// ServerInstance represents a running HTTP test server.
type ServerInstance struct {
	BaseURL string
	Machine *machine.Machine
	Close   func()
}

// StartServer launches an in-memory HTTP server for the dispenser API.
// The server and its machine are closed when the test ends.
func StartServer(t testing.TB, cfg ServerConfig) *ServerInstance {
	t.Helper()
	m := cfg.Machine
	if m == nil {
		m = machine.New(machine.Config{CPUs: cfg.CPUs})
	}
	server := httptest.NewServer(api.NewHandler(api.Config{Machine: m, OnRefill: cfg.OnRefill}))
	closeAll := func() {
		server.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.Close(ctx)
	}
	t.Cleanup(closeAll)
	return &ServerInstance{
		BaseURL: server.URL,
		Machine: m,
		Close:   closeAll,
	}
}
