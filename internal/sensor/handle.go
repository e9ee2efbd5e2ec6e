// Package sensor discovers hardware sensors and turns their readings
// into status-qualified CPU temperature results.
package sensor

import (
	"context"
	"math"
)

type DeviceKind string

const (
	DeviceCPU         DeviceKind = "CPU"
	DeviceGPU         DeviceKind = "GPU"
	DeviceMotherboard DeviceKind = "Motherboard"
	DeviceOther       DeviceKind = "Other"
)

type SensorKind string

const (
	KindTemperature SensorKind = "Temperature"
	KindLoad        SensorKind = "Load"
)

// Handle is one enumerated sensor row. Handles are replaced wholesale
// on every backend read; readers never mutate them in place.
type Handle struct {
	ID         string
	Device     string
	DeviceKind DeviceKind
	Name       string
	Kind       SensorKind
	Value      *float64
	Params     map[string]float64
}

// ValidValue returns the raw reading when it is finite and within the
// plausible [0,120] °C band. Out-of-range values are treated as absent,
// never clamped.
func (h Handle) ValidValue() (float64, bool) {
	if h.Value == nil {
		return 0, false
	}
	if !ValidCelsius(*h.Value) {
		return 0, false
	}
	return *h.Value, true
}

func (h Handle) Param(name string) (float64, bool) {
	v, ok := h.Params[name]
	return v, ok
}

const (
	minValidC = 0
	maxValidC = 120
)

func ValidCelsius(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= minValidC && v <= maxValidC
}

// Backend is the hardware-sensor source. Open may fail while the
// driver is blocked or the process lacks privileges; callers retry it
// on every poll until it succeeds.
type Backend interface {
	Name() string
	Open() error
	Read(ctx context.Context) ([]Handle, error)
}
