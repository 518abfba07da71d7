package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/driftworks/go-recoverspawn/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExecutorSnapshotProvider provides current executor stats snapshots.
type ExecutorSnapshotProvider interface {
	Stats() core.ExecutorStats
}

// SnapshotPoller periodically exports executor Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	executorsMu sync.RWMutex
	executors   map[string]ExecutorSnapshotProvider

	executorQueued  *prom.GaugeVec
	executorActive  *prom.GaugeVec
	executorWorkers *prom.GaugeVec
	executorRunning *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	executorQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "recoverspawn",
		Name:      "executor_queued",
		Help:      "Queued tasks per executor.",
	}, []string{"executor"})
	executorActive := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "recoverspawn",
		Name:      "executor_active",
		Help:      "Active tasks per executor.",
	}, []string{"executor"})
	executorWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "recoverspawn",
		Name:      "executor_workers",
		Help:      "Worker count per executor.",
	}, []string{"executor"})
	executorRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "recoverspawn",
		Name:      "executor_running",
		Help:      "Executor running state (1=running, 0=stopped).",
	}, []string{"executor"})

	var err error
	if executorQueued, err = registerCollector(reg, executorQueued); err != nil {
		return nil, err
	}
	if executorActive, err = registerCollector(reg, executorActive); err != nil {
		return nil, err
	}
	if executorWorkers, err = registerCollector(reg, executorWorkers); err != nil {
		return nil, err
	}
	if executorRunning, err = registerCollector(reg, executorRunning); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:        interval,
		executors:       make(map[string]ExecutorSnapshotProvider),
		executorQueued:  executorQueued,
		executorActive:  executorActive,
		executorWorkers: executorWorkers,
		executorRunning: executorRunning,
	}, nil
}

// AddExecutor adds or replaces an executor snapshot provider by name.
func (p *SnapshotPoller) AddExecutor(name string, provider ExecutorSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "executor")
	p.executorsMu.Lock()
	p.executors[name] = provider
	p.executorsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.executorsMu.RLock()
	defer p.executorsMu.RUnlock()

	for name, provider := range p.executors {
		stats := provider.Stats()
		p.executorQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.executorActive.WithLabelValues(name).Set(float64(stats.Active))
		p.executorWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		if stats.Running {
			p.executorRunning.WithLabelValues(name).Set(1)
		} else {
			p.executorRunning.WithLabelValues(name).Set(0)
		}
	}
}
