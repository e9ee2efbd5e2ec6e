// Package metrics runs the periodic aggregation loop: it ticks every
// collector, merges their outputs into one immutable snapshot, and
// publishes it atomically for HTTP and streaming consumers.
package metrics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"pulsedeck/internal/config"
	"pulsedeck/internal/domain"
	"pulsedeck/internal/logger"
	"pulsedeck/internal/metrics/collector/cpu"
	"pulsedeck/internal/metrics/collector/memory"
	"pulsedeck/internal/metrics/collector/network"
	"pulsedeck/internal/metrics/collector/process"
	"pulsedeck/internal/sensor"
	"pulsedeck/internal/storage/snapshot"
	"pulsedeck/internal/temperature"
)

const seriesLen = 60

type Loop struct {
	cfg *config.Config
	log logger.Logger

	provider temperature.Provider
	monitor  *sensor.Monitor

	cpu     *cpu.Collector
	memory  *memory.Collector
	network *network.Collector
	process *process.Collector

	store *snapshot.MetricsStore

	// clients reports live streaming consumers; sink receives each
	// published snapshot. Both are attached after construction because
	// the hub needs the loop as its snapshot source.
	clients func() int
	sink    func(domain.Snapshot)

	ringMu   sync.Mutex
	sendRing *Ring
	recvRing *Ring

	statsMu   sync.Mutex
	lastTick  time.Time
	tickDurMs *Ring
}

func NewLoop(
	cfg *config.Config,
	log logger.Logger,
	provider temperature.Provider,
	monitor *sensor.Monitor,
	store *snapshot.MetricsStore,
) *Loop {
	return &Loop{
		cfg:       cfg,
		log:       log,
		provider:  provider,
		monitor:   monitor,
		cpu:       cpu.NewCollector(log),
		memory:    memory.NewCollector(log),
		network:   network.NewCollector(log),
		process:   process.NewCollector(cfg.ProcessInterval, log),
		store:     store,
		clients:   func() int { return 0 },
		sink:      func(domain.Snapshot) {},
		sendRing:  NewRing(seriesLen),
		recvRing:  NewRing(seriesLen),
		tickDurMs: NewRing(seriesLen),
	}
}

// Attach wires the streaming side in; must be called before Run.
func (l *Loop) Attach(clients func() int, sink func(domain.Snapshot)) {
	l.clients = clients
	l.sink = sink
}

// Run drives the loop until ctx is cancelled. Interface selection runs
// once up front; every tick after that is bounded by the timer.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.network.PickInterface(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.log.Error("interface selection failed, network throughput disabled", "error", err)
	}

	interval := l.cfg.MetricsInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.tick(ctx)

	for {
		select {
		case <-ticker.C:
			l.tick(ctx)

			if next := l.currentInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
				l.log.Debug("metrics interval switched", "interval", interval)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// currentInterval trades freshness for overhead when nobody is
// watching, if that behavior is enabled.
func (l *Loop) currentInterval() time.Duration {
	if l.cfg.AdaptiveInterval && l.clients() == 0 {
		return l.cfg.NoClientInterval
	}
	return l.cfg.MetricsInterval
}

func (l *Loop) tick(ctx context.Context) {
	started := time.Now()
	snap := domain.Snapshot{
		Time:   started,
		Errors: []string{},
	}

	if usage, err := l.cpu.Collect(ctx); err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("cpu: %v", err))
	} else {
		snap.CPUPercent = domain.Float(round1(usage))
	}

	temp := l.provider.GetTemperature(ctx)
	snap.CPUTempC = temp.ValueC
	snap.CPUTempSource = temp.Source
	snap.CPUTempStatus = temp.Status
	snap.CPUTempHint = temp.Hint
	_, snap.CPUTempDiag = l.monitor.Last()

	gpuLoad, gpuTemp := l.monitor.GPU()
	snap.GPUPercent = gpuLoad
	snap.GPUTempC = gpuTemp

	if ram, err := l.memory.Collect(ctx); err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("memory: %v", err))
	} else {
		snap.RAMTotalMB = domain.Float(round1(ram.TotalMB))
		snap.RAMUsedMB = domain.Float(round1(ram.UsedMB))
		snap.RAMPercent = domain.Float(round1(ram.UsagePercent))
	}

	sendKbps, recvKbps := 0.0, 0.0
	if tp, err := l.network.Collect(ctx); err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("network: %v", err))
	} else {
		sendKbps, recvKbps = round1(tp.SendKbps), round1(tp.ReceiveKbps)
		snap.NetInterface = l.network.Interface()
		snap.NetSendKbps = domain.Float(sendKbps)
		snap.NetReceiveKbps = domain.Float(recvKbps)
	}

	// The series advances every tick, even on a failed read, so its
	// samples stay aligned with tick boundaries.
	l.ringMu.Lock()
	l.sendRing.Append(sendKbps)
	l.recvRing.Append(recvKbps)
	l.ringMu.Unlock()

	if procs, err := l.process.Collect(ctx); err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("process: %v", err))
	} else {
		snap.TopProcesses = procs
	}

	l.store.Set(snap)
	l.recordTick(started)
	l.sink(snap)
}

// Series copies the 60-sample throughput buffers, oldest first.
func (l *Loop) Series() *domain.NetSeries {
	l.ringMu.Lock()
	defer l.ringMu.Unlock()
	return &domain.NetSeries{
		SendKbps:    l.sendRing.Snapshot(),
		ReceiveKbps: l.recvRing.Snapshot(),
	}
}

// Latest returns the most recent published snapshot.
func (l *Loop) Latest() domain.Snapshot {
	return l.store.Get()
}

func (l *Loop) recordTick(started time.Time) {
	l.statsMu.Lock()
	l.lastTick = started
	l.tickDurMs.Append(float64(time.Since(started).Microseconds()) / 1000)
	l.statsMu.Unlock()
}

// Stats reports runtime self-stats for the stats endpoint.
func (l *Loop) Stats() domain.RuntimeStats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()

	stats := domain.RuntimeStats{
		ConnectedClients: l.clients(),
		LastTick:         l.lastTick,
	}
	durations := l.tickDurMs.Snapshot()
	if len(durations) > 0 {
		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		stats.AvgTickMs = sum / float64(len(durations))
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
