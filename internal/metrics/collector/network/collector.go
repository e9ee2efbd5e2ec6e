// Package network
package network

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v4/net"

	"pulsedeck/internal/logger"
)

var ErrNoInterface = errors.New("no active network interface")

const sampleWindow = 2 * time.Second

type Throughput struct {
	SendKbps    float64
	ReceiveKbps float64
}

type Collector struct {
	log   logger.Logger
	iface string

	lastSent uint64
	lastRecv uint64
	lastTime time.Time
}

func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log}
}

// PickInterface samples all interfaces over a short window once at
// startup and fixes on the most active one for the process lifetime.
func (c *Collector) PickInterface(ctx context.Context) error {
	before, err := readCounters(ctx)
	if err != nil {
		return err
	}

	select {
	case <-time.After(sampleWindow):
	case <-ctx.Done():
		return ctx.Err()
	}

	after, err := readCounters(ctx)
	if err != nil {
		return err
	}

	var best string
	var bestDelta uint64
	for name, a := range after {
		b, ok := before[name]
		if !ok {
			continue
		}
		delta := (a.BytesSent - b.BytesSent) + (a.BytesRecv - b.BytesRecv)
		if best == "" || delta > bestDelta {
			best = name
			bestDelta = delta
		}
	}
	if best == "" {
		return ErrNoInterface
	}

	c.iface = best
	c.lastSent = after[best].BytesSent
	c.lastRecv = after[best].BytesRecv
	c.lastTime = time.Now()
	c.log.Info("network interface selected", "interface", best)
	return nil
}

func (c *Collector) Interface() string {
	return c.iface
}

func (c *Collector) Collect(ctx context.Context) (Throughput, error) {
	if c.iface == "" {
		return Throughput{}, ErrNoInterface
	}

	counters, err := readCounters(ctx)
	if err != nil {
		return Throughput{}, err
	}
	stat, ok := counters[c.iface]
	if !ok {
		return Throughput{}, ErrNoInterface
	}

	now := time.Now()
	elapsed := now.Sub(c.lastTime).Seconds()

	var out Throughput
	if elapsed > 0 && stat.BytesSent >= c.lastSent && stat.BytesRecv >= c.lastRecv {
		out.SendKbps = float64(stat.BytesSent-c.lastSent) * 8 / 1000 / elapsed
		out.ReceiveKbps = float64(stat.BytesRecv-c.lastRecv) * 8 / 1000 / elapsed
	}

	c.lastSent = stat.BytesSent
	c.lastRecv = stat.BytesRecv
	c.lastTime = now
	return out, nil
}

func readCounters(ctx context.Context) (map[string]net.IOCountersStat, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]net.IOCountersStat, len(stats))
	for _, st := range stats {
		out[st.Name] = st
	}
	return out, nil
}
