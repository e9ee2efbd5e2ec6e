// Package memory
package memory

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v4/mem"

	"pulsedeck/internal/logger"
)

var ErrUnavailable = errors.New("physical memory size unavailable")

type MemoryMetric struct {
	TotalMB      float64
	UsedMB       float64
	UsagePercent float64
}

type Collector struct {
	log     logger.Logger
	totalMB float64
	dead    bool
}

// NewCollector reads total physical memory once and caches it; the
// per-tick read only fetches currently-available memory.
func NewCollector(log logger.Logger) *Collector {
	c := &Collector{log: log}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Error("memory counter initialization failed, ram usage disabled", "error", err)
		c.dead = true
		return c
	}
	c.totalMB = bytesToMB(vm.Total)
	return c
}

func (c *Collector) Collect(ctx context.Context) (MemoryMetric, error) {
	if c.dead || c.totalMB <= 0 {
		return MemoryMetric{}, ErrUnavailable
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryMetric{}, err
	}

	usedMB := c.totalMB - bytesToMB(vm.Available)
	if usedMB < 0 {
		usedMB = 0
	}

	return MemoryMetric{
		TotalMB:      c.totalMB,
		UsedMB:       usedMB,
		UsagePercent: usedMB / c.totalMB * 100,
	}, nil
}

func bytesToMB(v uint64) float64 {
	return float64(v) / 1024 / 1024
}
