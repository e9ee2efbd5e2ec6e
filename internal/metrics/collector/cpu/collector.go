// Package cpu
package cpu

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"

	"pulsedeck/internal/logger"
)

type Collector struct {
	log  logger.Logger
	dead bool
}

// NewCollector primes the usage counter so the first tick measures a
// real interval. A failure here nulls the field for the process
// lifetime, matching counter initialization semantics.
func NewCollector(log logger.Logger) *Collector {
	c := &Collector{log: log}
	if _, err := cpu.Percent(0, false); err != nil {
		log.Error("cpu counter initialization failed, cpu usage disabled", "error", err)
		c.dead = true
	}
	return c
}

func (c *Collector) Collect(ctx context.Context) (float64, error) {
	if c.dead {
		return 0, ErrUnavailable
	}

	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(usage) == 0 {
		return 0, ErrUnavailable
	}
	return usage[0], nil
}
