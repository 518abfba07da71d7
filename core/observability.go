package core

import (
	"context"
	"sync"
	"time"
)

// Stage identifies which callable of a spawn a capture boundary was
// guarding when it intercepted a panic.
type Stage string

const (
	// StageUnit is the main unit of work.
	StageUnit Stage = "unit"

	// StageHandler is the error handler of a catch composition.
	StageHandler Stage = "handler"

	// StageFinalizer is the finalizer of a catch-finally composition.
	StageFinalizer Stage = "finalizer"
)

// SpawnKind labels which execution family produced a spawn.
const (
	SpawnKindThread = "thread"
	SpawnKindTask   = "task"
)

// =============================================================================
// PanicReporter: process-wide diagnostic sink for captured panics
// =============================================================================

// PanicReporter observes every panic intercepted by a capture boundary.
// Reporting is diagnostic only; it never changes the outcome of a spawn.
//
// Implementations must be safe for concurrent use.
type PanicReporter interface {
	// ReportPanic is called after the panic has been captured.
	//
	// Parameters:
	// - ctx: The context of the panicked callable
	// - stage: Which callable of the spawn panicked
	// - err: The captured panic, including payload and stack trace
	ReportPanic(ctx context.Context, stage Stage, err *PanicError)
}

// SilentReporter discards every report. This is the installed default:
// callers that want to observe failures use the catch family or inspect
// the handle, not process-wide diagnostics.
type SilentReporter struct{}

// ReportPanic is a no-op.
func (SilentReporter) ReportPanic(ctx context.Context, stage Stage, err *PanicError) {}

// LoggingReporter writes captured panics to a Logger.
type LoggingReporter struct {
	Logger Logger
}

// ReportPanic logs the panic payload and stack trace.
func (r LoggingReporter) ReportPanic(ctx context.Context, stage Stage, err *PanicError) {
	logger := r.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	logger.Error("captured panic",
		F("stage", string(stage)),
		F("panic", err.Message()),
		F("stack", string(err.Stack)),
	)
}

var (
	reporterOnce sync.Once
	reporterVal  PanicReporter
)

// InstallReporter installs r as the process-wide panic reporter. The
// installation is one-time: the first call wins, every later call is a
// no-op. Returns whether r was installed.
//
// Concurrent installs from multiple spawns coalesce on the first one; a
// reporter is never re-installed per spawn.
func InstallReporter(r PanicReporter) bool {
	installed := false
	reporterOnce.Do(func() {
		reporterVal = r
		installed = true
	})
	return installed
}

// installedReporter returns the process-wide reporter, installing the
// silent default on first use.
func installedReporter() PanicReporter {
	reporterOnce.Do(func() {
		reporterVal = SilentReporter{}
	})
	return reporterVal
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting spawn execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus,
// StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting spawn
// execution performance.
type Metrics interface {
	// RecordSpawn records that a spawn of the given kind was launched.
	RecordSpawn(kind string)

	// RecordSpawnDuration records how long the unit of a spawn took to run.
	RecordSpawnDuration(kind string, duration time.Duration)

	// RecordPanic records a captured panic in the given stage.
	RecordPanic(stage Stage)

	// RecordQueueDepth records the current executor queue depth.
	// This is called periodically to track queue growth/shrinkage.
	RecordQueueDepth(depth int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordSpawn is a no-op.
func (m *NilMetrics) RecordSpawn(kind string) {}

// RecordSpawnDuration is a no-op.
func (m *NilMetrics) RecordSpawnDuration(kind string, duration time.Duration) {}

// RecordPanic is a no-op.
func (m *NilMetrics) RecordPanic(stage Stage) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(depth int) {}

var (
	metricsMu  sync.RWMutex
	metricsVal Metrics = &NilMetrics{}
)

// SetMetrics replaces the process-wide metrics sink. Pass nil to restore
// the no-op default.
func SetMetrics(m Metrics) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if m == nil {
		m = &NilMetrics{}
	}
	metricsVal = m
}

func currentMetrics() Metrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metricsVal
}

// =============================================================================
// ExecutorStats
// =============================================================================

// ExecutorStats represents runtime observability state for an executor.
type ExecutorStats struct {
	Name    string
	Workers int
	Queued  int
	Active  int
	Running bool
}
