package sensor

import (
	"context"
	"encoding/csv"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// SystemBackend enumerates hardware sensors from the OS sensor
// interface, appending GPU temperature/load rows from nvidia-smi when
// the tool is present.
type SystemBackend struct {
	hasNvidia bool
}

func NewSystemBackend() *SystemBackend {
	return &SystemBackend{}
}

func (b *SystemBackend) Name() string {
	return "system"
}

// Open probes the sensor interface once. Failure here is the
// driver-blocked / access-denied case; the monitor retries on every
// poll.
func (b *SystemBackend) Open() error {
	if _, err := sensors.TemperaturesWithContext(context.Background()); err != nil {
		return fmt.Errorf("sensor enumeration: %w", err)
	}
	_, err := exec.LookPath("nvidia-smi")
	b.hasNvidia = err == nil
	return nil
}

func (b *SystemBackend) Read(ctx context.Context) ([]Handle, error) {
	stats, err := sensors.TemperaturesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	handles := make([]Handle, 0, len(stats)+4)
	for _, st := range stats {
		device, kind := classifyKey(st.SensorKey)
		h := Handle{
			ID:         "sys/" + st.SensorKey,
			Device:     device,
			DeviceKind: kind,
			Name:       st.SensorKey,
			Kind:       KindTemperature,
		}
		v := st.Temperature
		h.Value = &v
		if st.Critical > 0 {
			h.Params = map[string]float64{tjmaxParam: st.Critical}
		}
		handles = append(handles, h)
	}

	if b.hasNvidia {
		handles = append(handles, readNvidiaHandles(ctx)...)
	}

	return handles, nil
}

// classifyKey buckets a sensor key into a device group by the driver
// names it typically carries.
func classifyKey(key string) (string, DeviceKind) {
	k := strings.ToLower(key)
	switch {
	case containsAny(k, "coretemp", "k10temp", "zenpower", "ryzen", "cpu", "tctl", "tdie", "package", "core"):
		return "CPU", DeviceCPU
	case containsAny(k, "acpitz", "thermal", "pch", "motherboard", "systin"):
		return "Motherboard", DeviceMotherboard
	case containsAny(k, "gpu", "amdgpu", "nouveau", "edge", "junction"):
		return "GPU", DeviceGPU
	default:
		return "Other", DeviceOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func readNvidiaHandles(ctx context.Context) []Handle {
	rows, err := runNvidiaQueryCSV(ctx, []string{"index", "name", "temperature.gpu", "utilization.gpu"})
	if err != nil {
		return nil
	}

	handles := make([]Handle, 0, len(rows)*2)
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		index := strings.TrimSpace(row[0])
		device := strings.TrimSpace(row[1])

		if temp, ok := parseSMIFloat(row[2]); ok {
			handles = append(handles, Handle{
				ID:         "nvidia/" + index + "/temp",
				Device:     device,
				DeviceKind: DeviceGPU,
				Name:       "GPU Core",
				Kind:       KindTemperature,
				Value:      &temp,
			})
		}
		if load, ok := parseSMIFloat(row[3]); ok {
			handles = append(handles, Handle{
				ID:         "nvidia/" + index + "/load",
				Device:     device,
				DeviceKind: DeviceGPU,
				Name:       "GPU Core",
				Kind:       KindLoad,
				Value:      &load,
			})
		}
	}
	return handles
}

func runNvidiaQueryCSV(ctx context.Context, fields []string) ([][]string, error) {
	args := []string{
		"--query-gpu=" + strings.Join(fields, ","),
		"--format=csv,noheader,nounits",
	}
	cmd := exec.CommandContext(ctx, "nvidia-smi", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(string(out)))
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func parseSMIFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "n/a", "[not supported]", "not supported", "unknown", "-", "none":
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
