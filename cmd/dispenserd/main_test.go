package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"dispenser/internal/batch"
	"dispenser/internal/machine"
	"dispenser/internal/metrics"
)

// TestNewMuxRoutes ensures health, metrics and API routes are mounted together.
func TestNewMuxRoutes(t *testing.T) {
	stats := metrics.New()
	m := machine.New(machine.Config{CPUs: 2, Observer: batch.Observers{stats}})
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := seed(context.Background(), m, filepath.Join("..", "..", "internal", "submission", "testdata", "machine.json"), logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(newMux(m, stats, "/metrics"))
	defer srv.Close()

	for path, fragment := range map[string]string{
		"/healthz":      "ok",
		"/metrics":      `dispenser_batches_total{result="completed"} 1`,
		"/v1/items/low": `"hot_milk"`,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if !strings.Contains(body.String(), fragment) {
			t.Fatalf("%s: expected %q in body:\n%s", path, fragment, body.String())
		}
	}
}

// TestNewMuxRefillUpdatesStockGauge ensures a refill is visible in metrics before the next batch.
func TestNewMuxRefillUpdatesStockGauge(t *testing.T) {
	stats := metrics.New()
	m := machine.New(machine.Config{CPUs: 2, Observer: batch.Observers{stats}})
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := seed(context.Background(), m, filepath.Join("..", "..", "internal", "submission", "testdata", "machine.json"), logger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(newMux(m, stats, "/metrics"))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/refill", "application/json", strings.NewReader(`{"items":{"hot_milk":250}}`))
	if err != nil {
		t.Fatalf("refill: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refill: expected 200, got %d", resp.StatusCode)
	}
	if got := testutil.ToFloat64(stats.StockLevel.WithLabelValues("hot_milk")); got != 250 {
		t.Fatalf("hot_milk gauge = %v, want 250", got)
	}
}

// TestNewMuxWithoutMetrics ensures the metrics path falls through to the API when disabled.
func TestNewMuxWithoutMetrics(t *testing.T) {
	m := machine.New(machine.Config{CPUs: 2})
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	srv := httptest.NewServer(newMux(m, nil, "/metrics"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// TestLoadConfigDefaults ensures the daemon runs without a config file.
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" || !cfg.Metrics.On() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
