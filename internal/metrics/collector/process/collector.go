// Package process
package process

import (
	"context"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"pulsedeck/internal/domain"
	"pulsedeck/internal/logger"
)

const topCount = 5

// Collector refreshes the top-process list no more often than its
// configured interval; between refreshes it serves the cached list.
type Collector struct {
	log      logger.Logger
	interval time.Duration

	last   time.Time
	cached []domain.ProcessInfo
}

func NewCollector(interval time.Duration, log logger.Logger) *Collector {
	return &Collector{log: log, interval: interval}
}

func (c *Collector) Collect(ctx context.Context) ([]domain.ProcessInfo, error) {
	if !c.last.IsZero() && time.Since(c.last) < c.interval {
		return c.cached, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return c.cached, err
	}

	all := make([]domain.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		all = append(all, domain.ProcessInfo{
			Name:       name,
			CPUPercent: cpuPct,
			RAMPercent: float64(memPct),
		})
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.GPUPercent != b.GPUPercent {
			return a.GPUPercent > b.GPUPercent
		}
		if a.CPUPercent != b.CPUPercent {
			return a.CPUPercent > b.CPUPercent
		}
		if a.RAMPercent != b.RAMPercent {
			return a.RAMPercent > b.RAMPercent
		}
		return a.Name < b.Name
	})

	if len(all) > topCount {
		all = all[:topCount]
	}

	c.cached = all
	c.last = time.Now()
	return all, nil
}
