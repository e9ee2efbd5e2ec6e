// Package temperature presents one "get current CPU temperature"
// capability over interchangeable sources, chosen once at startup.
package temperature

import (
	"context"

	"pulsedeck/internal/config"
	"pulsedeck/internal/domain"
	"pulsedeck/internal/logger"
	"pulsedeck/internal/sensor"
)

// Provider resolves a temperature result. Implementations never return
// an error; failures surface as an absent value with the provider's
// designated status and hint.
type Provider interface {
	GetTemperature(ctx context.Context) domain.TempResult
}

// Select maps the configured provider name to a concrete provider.
// The choice is fixed for the process lifetime.
func Select(cfg *config.Config, monitor *sensor.Monitor, log logger.Logger) Provider {
	switch cfg.Provider {
	case config.ProviderThermalZone:
		return NewThermalZone(DefaultZoneReader, cfg.HardwareInterval, log)
	case config.ProviderExternal:
		return NewExternal()
	default:
		return NewNative(monitor)
	}
}

// Native reads through the sensor scanner and its state machine.
type Native struct {
	monitor *sensor.Monitor
}

func NewNative(monitor *sensor.Monitor) *Native {
	return &Native{monitor: monitor}
}

func (p *Native) GetTemperature(ctx context.Context) domain.TempResult {
	return p.monitor.Tick()
}
