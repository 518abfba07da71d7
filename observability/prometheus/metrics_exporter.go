package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/driftworks/go-recoverspawn/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	spawnTotal           *prom.CounterVec
	panicTotal           *prom.CounterVec
	spawnDurationSeconds *prom.HistogramVec
	executorQueueDepth   prom.Gauge
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "recoverspawn"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	spawnVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "spawn_total",
		Help:      "Total number of spawns launched.",
	}, []string{"kind"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "panic_total",
		Help:      "Total number of panics captured, by spawn stage.",
	}, []string{"stage"})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "spawn_duration_seconds",
		Help:      "Unit execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"kind"})
	queueDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "executor_queue_depth",
		Help:      "Current shared executor queue depth.",
	})

	var err error
	if spawnVec, err = registerCollector(reg, spawnVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		spawnTotal:           spawnVec,
		panicTotal:           panicVec,
		spawnDurationSeconds: durationVec,
		executorQueueDepth:   queueDepth,
	}, nil
}

// RecordSpawn records a launched spawn.
func (m *MetricsExporter) RecordSpawn(kind string) {
	if m == nil {
		return
	}
	m.spawnTotal.WithLabelValues(normalizeLabel(kind, "unknown")).Inc()
}

// RecordSpawnDuration records unit execution duration.
func (m *MetricsExporter) RecordSpawnDuration(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.spawnDurationSeconds.WithLabelValues(normalizeLabel(kind, "unknown")).Observe(duration.Seconds())
}

// RecordPanic records a captured panic by stage.
func (m *MetricsExporter) RecordPanic(stage core.Stage) {
	if m == nil {
		return
	}
	m.panicTotal.WithLabelValues(normalizeLabel(string(stage), "unknown")).Inc()
}

// RecordQueueDepth records the shared executor queue depth.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.executorQueueDepth.Set(float64(depth))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
