package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispenser/internal/api"
	"dispenser/internal/batch"
	"dispenser/internal/config"
	"dispenser/internal/logging"
	"dispenser/internal/machine"
	"dispenser/internal/metrics"
	"dispenser/internal/submission"
)

// main launches dispenserd.
func main() {
	os.Exit(run())
}

// run executes dispenserd and returns an exit code.
func run() int {
	configPath := flag.String("config", "", "path to dispenserd config (default: built-in defaults)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	logger := logging.New(logging.Config{
		Level:       logging.LogLevel(cfg.Logging.Level),
		ServiceName: "dispenserd",
	})

	var stats *metrics.Metrics
	observers := batch.Observers{logging.NewBatchLogger(logger)}
	if cfg.Metrics.On() {
		stats = metrics.New()
		observers = append(observers, stats)
	}
	m := machine.New(machine.Config{CPUs: cfg.Machine.CPUs, Observer: observers})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Machine.SeedPath != "" {
		if err := seed(ctx, m, cfg.Machine.SeedPath, logger); err != nil {
			logger.Error("seed failed", "path", cfg.Machine.SeedPath, "error", err)
			return 1
		}
	}

	mux := newMux(m, stats, cfg.Metrics.Path)
	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("listening", "addr", cfg.Server.ListenAddr, "metrics", cfg.Metrics.On())

	code := 0
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", "error", err)
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	if err := m.Close(shutdownCtx); err != nil {
		logger.Warn("machine close", "error", err)
	}
	logger.Info("stopped")
	return code
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Parse(nil)
	}
	return config.Load(path)
}

// newMux mounts the API with health and optional metrics endpoints.
func newMux(m *machine.Machine, stats *metrics.Metrics, metricsPath string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	if stats != nil {
		mux.Handle(metricsPath, stats.Handler())
	}
	apiCfg := api.Config{Machine: m}
	if stats != nil {
		apiCfg.OnRefill = stats.RecordStock
	}
	mux.Handle("/", api.NewHandler(apiCfg))
	return mux
}

// seed fills the machine from a submission file and serves its beverages.
func seed(ctx context.Context, m *machine.Machine, path string, logger *slog.Logger) error {
	sub, err := submission.Load(path)
	if err != nil {
		return err
	}
	res, err := m.ProcessData(ctx, sub)
	if err != nil {
		return err
	}
	logger.Info("machine seeded", "batch_id", res.BatchID, "outlets", sub.Outlets, "workers", m.Workers())
	return nil
}
