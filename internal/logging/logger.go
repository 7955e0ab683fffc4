// Package logging builds the structured JSON logger used by dispenserd.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"dispenser/internal/batch"
	"dispenser/pkg/dispenser"
)

// LogLevel represents logging levels.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	Level       LogLevel
	ServiceName string
	Output      io.Writer
}

// New creates a JSON slog logger tagged with the service name.
func New(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
				}
			}
			return a
		},
	})
	return slog.New(handler).With("service", cfg.ServiceName)
}

// BatchLogger logs batch lifecycle events.
type BatchLogger struct {
	logger *slog.Logger
}

var _ batch.Observer = (*BatchLogger)(nil)

// NewBatchLogger wraps logger as a batch observer.
func NewBatchLogger(logger *slog.Logger) *BatchLogger {
	return &BatchLogger{logger: logger}
}

func (l *BatchLogger) OnBatchStart(batchID string, orders int) {
	l.logger.Debug("batch started", "batch_id", batchID, "orders", orders)
}

func (l *BatchLogger) OnOutcome(batchID string, outcome dispenser.Outcome) {
	l.logger.Debug("order served",
		"batch_id", batchID,
		"order", outcome.Order,
		"outcome", string(outcome.Kind),
		"resource", string(outcome.Resource),
	)
}

func (l *BatchLogger) OnBatchDone(batchID string, res batch.Result) {
	prepared := 0
	for _, o := range res.Outcomes {
		if o.Kind == dispenser.OutcomePrepared {
			prepared++
		}
	}
	l.logger.Info("batch completed",
		"batch_id", batchID,
		"orders", len(res.Outcomes),
		"prepared", prepared,
	)
}

func (l *BatchLogger) OnFault(batchID string, fault *batch.ConcurrencyFault) {
	l.logger.Error("batch aborted", "batch_id", batchID, "order", fault.Order, "error", fault.Err)
}
