package temperature

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"pulsedeck/internal/domain"
	"pulsedeck/internal/logger"
	"pulsedeck/internal/sensor"
)

const hintApprox = "Approximate reading from the OS thermal zone; actual CPU core temperature may differ."

const zoneSourceLabel = "Thermal zone"

// ZoneReader returns the raw readings of all thermal zones. Raw values
// may be tenths of Kelvin (WMI-style sources), Kelvin, or Celsius;
// RawToCelsius normalizes them.
type ZoneReader func(ctx context.Context) ([]float64, error)

// ThermalZone polls the OS thermal zone interface, taking the hottest
// zone and caching the result for one poll interval to avoid redundant
// system queries between ticks.
type ThermalZone struct {
	read ZoneReader
	ttl  time.Duration
	log  logger.Logger

	mu       sync.Mutex
	cached   domain.TempResult
	cachedAt time.Time
}

func NewThermalZone(read ZoneReader, ttl time.Duration, log logger.Logger) *ThermalZone {
	return &ThermalZone{read: read, ttl: ttl, log: log}
}

func (p *ThermalZone) GetTemperature(ctx context.Context) domain.TempResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cachedAt.IsZero() && time.Since(p.cachedAt) < p.ttl {
		return p.cached
	}

	res := domain.TempResult{Status: domain.TempStatusWMIApprox, Hint: hintApprox}

	raws, err := p.read(ctx)
	if err != nil {
		p.log.Debug("thermal zone read failed", "error", err)
	} else if best, ok := hottestZone(raws); ok {
		rounded := math.Round(best*10) / 10
		res.ValueC = &rounded
		res.Source = domain.String(zoneSourceLabel)
	}

	p.cached = res
	p.cachedAt = time.Now()
	return res
}

func hottestZone(raws []float64) (float64, bool) {
	best, found := 0.0, false
	for _, raw := range raws {
		c, ok := RawToCelsius(raw)
		if !ok {
			continue
		}
		if !found || c > best {
			best = c
			found = true
		}
	}
	return best, found
}

// RawToCelsius converts a raw zone reading to Celsius: values above
// 1000 are tenths of Kelvin, values above 170 are Kelvin, anything
// else is taken as already Celsius. Results outside the plausible band
// are rejected, never clamped.
func RawToCelsius(raw float64) (float64, bool) {
	c := raw
	switch {
	case raw > 1000:
		c = raw/10 - 273.15
	case raw > 170:
		c = raw - 273.15
	}
	if !sensor.ValidCelsius(c) {
		return 0, false
	}
	return c, true
}

// DefaultZoneReader scans sysfs thermal zones. Values are reported in
// millidegrees Celsius and normalized to Celsius here; WMI-style
// sources feed tenths-of-Kelvin raws straight into RawToCelsius.
func DefaultZoneReader(ctx context.Context) ([]float64, error) {
	matches, err := filepath.Glob("/sys/class/thermal/thermal_zone*/temp")
	if err != nil {
		return nil, err
	}

	raws := make([]float64, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			continue
		}
		raws = append(raws, v/1000)
	}
	return raws, nil
}

// ZoneSensorRows lists thermal zones as synthetic sensor rows for the
// debug sensor listing.
func ZoneSensorRows(ctx context.Context) []domain.SensorRow {
	raws, err := DefaultZoneReader(ctx)
	if err != nil {
		return nil
	}

	rows := make([]domain.SensorRow, 0, len(raws))
	for i, raw := range raws {
		row := domain.SensorRow{
			Hardware:     "ACPI",
			HardwareKind: string(sensor.DeviceMotherboard),
			Sensor:       "Thermal Zone " + strconv.Itoa(i),
			Kind:         string(sensor.KindTemperature),
			Raw:          &raw,
			ID:           "zone/" + strconv.Itoa(i),
		}
		if c, ok := RawToCelsius(raw); ok {
			row.Value = &c
			row.Valid = true
		}
		rows = append(rows, row)
	}
	return rows
}
