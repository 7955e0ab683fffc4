// Package metrics exposes batch metrics for Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dispenser/internal/batch"
	"dispenser/pkg/dispenser"
)

const namespace = "dispenser"

// Metrics records batch activity and implements batch.Observer.
type Metrics struct {
	registry *prometheus.Registry

	BatchesTotal  *prometheus.CounterVec
	OutcomesTotal *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	StockLevel    *prometheus.GaugeVec

	mu      sync.Mutex
	started map[string]time.Time
	now     func() time.Time
}

var _ batch.Observer = (*Metrics)(nil)

// New creates metrics on a private registry with the standard Go collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		started:  make(map[string]time.Time),
		now:      time.Now,
	}
	m.BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of batches by result",
		},
		[]string{"result"},
	)
	m.OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_outcomes_total",
			Help:      "Total number of order outcomes by kind",
		},
		[]string{"kind"},
	)
	m.BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Batch processing duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
	m.StockLevel = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_quantity",
			Help:      "Resource quantity after the latest batch",
		},
		[]string{"resource"},
	)
	registry.MustRegister(m.BatchesTotal, m.OutcomesTotal, m.BatchDuration, m.StockLevel)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) OnBatchStart(batchID string, _ int) {
	m.mu.Lock()
	m.started[batchID] = m.now()
	m.mu.Unlock()
}

func (m *Metrics) OnOutcome(_ string, outcome dispenser.Outcome) {
	m.OutcomesTotal.WithLabelValues(string(outcome.Kind)).Inc()
}

func (m *Metrics) OnBatchDone(batchID string, res batch.Result) {
	m.BatchesTotal.WithLabelValues("completed").Inc()
	m.observeDuration(batchID)
	m.RecordStock(res.Stock)
}

func (m *Metrics) OnFault(batchID string, _ *batch.ConcurrencyFault) {
	m.BatchesTotal.WithLabelValues("faulted").Inc()
	m.observeDuration(batchID)
}

// RecordStock publishes current quantities. Batches and refills both report here.
func (m *Metrics) RecordStock(stock dispenser.Stock) {
	for name, qty := range stock {
		m.StockLevel.WithLabelValues(string(name)).Set(float64(qty))
	}
}

func (m *Metrics) observeDuration(batchID string) {
	m.mu.Lock()
	start, ok := m.started[batchID]
	delete(m.started, batchID)
	m.mu.Unlock()
	if ok {
		m.BatchDuration.Observe(m.now().Sub(start).Seconds())
	}
}
