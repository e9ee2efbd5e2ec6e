package sensor

import (
	"context"
	"sync"
	"time"

	"pulsedeck/internal/domain"
	"pulsedeck/internal/logger"
)

const rescanInterval = 30 * time.Second

// Monitor owns the hardware poll loop: it opens the backend (retrying
// every poll while the driver is unavailable), refreshes sensor values,
// and rescans when the selection goes missing or stale. All mutable
// state lives behind its mutex; the metrics loop only reads through it.
type Monitor struct {
	mu sync.Mutex

	backend  Backend
	interval time.Duration
	log      logger.Logger

	opened     bool
	openLogged bool

	handles  []Handle
	sel      Selection
	gpuTemp  *Handle
	gpuLoad  *Handle
	lastScan time.Time

	st       state
	lastRes  domain.TempResult
	lastDiag domain.TempDiagnostics
}

func NewMonitor(backend Backend, interval time.Duration, log logger.Logger) *Monitor {
	return &Monitor{
		backend:  backend,
		interval: interval,
		log:      log,
		st:       newState(),
		lastRes:  domain.TempResult{Status: domain.TempStatusWarmingUp, Hint: hintWarmingUp},
	}
}

// Run polls the backend until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			m.refresh(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Monitor) refresh(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.opened {
		if err := m.backend.Open(); err != nil {
			if !m.openLogged {
				m.log.Warn("sensor backend unavailable, will keep retrying", "backend", m.backend.Name(), "error", err)
				m.openLogged = true
			}
			m.handles = nil
			m.sel = Selection{}
			m.gpuTemp, m.gpuLoad = nil, nil
			return
		}
		m.opened = true
		m.log.Info("sensor backend opened", "backend", m.backend.Name())
	}

	handles, err := m.backend.Read(ctx)
	if err != nil {
		m.log.Warn("sensor read failed", "backend", m.backend.Name(), "error", err)
		m.handles = nil
		m.sel = Selection{}
		m.gpuTemp, m.gpuLoad = nil, nil
		return
	}
	m.handles = handles

	if m.needRescan() {
		m.rescan(handles)
		return
	}

	// Between rescans the selection is fixed; only its values follow
	// the fresh read.
	m.sel.Primary = findByID(handles, m.sel.Primary)
	m.sel.Distance = findByID(handles, m.sel.Distance)
	m.gpuTemp = findByID(handles, m.gpuTemp)
	m.gpuLoad = findByID(handles, m.gpuLoad)
}

func (m *Monitor) needRescan() bool {
	if m.sel.Primary == nil || m.gpuTemp == nil || m.gpuLoad == nil {
		return true
	}
	if time.Since(m.lastScan) >= rescanInterval {
		return true
	}
	return m.st.ConsecutiveInvalid() >= invalidScanTrigger
}

func (m *Monitor) rescan(handles []Handle) {
	prevPrimary := ""
	if m.sel.Primary != nil {
		prevPrimary = m.sel.Primary.ID
	}

	m.sel = SelectCPUSensor(handles)
	m.gpuTemp, m.gpuLoad = selectGPU(handles)
	m.lastScan = time.Now()

	// A rescan that lands on the same primary keeps the validity
	// counters; a different selection starts over with a fresh
	// warm-up budget.
	if m.sel.Primary == nil || m.sel.Primary.ID != prevPrimary {
		m.st = newState()
	}

	if m.sel.Primary != nil {
		m.log.Debug("cpu sensor selected", "sensor", m.sel.Primary.Name, "device", m.sel.Primary.Device)
	}
}

func selectGPU(handles []Handle) (temp, load *Handle) {
	for i := range handles {
		h := &handles[i]
		if h.DeviceKind != DeviceGPU {
			continue
		}
		switch h.Kind {
		case KindTemperature:
			if temp == nil {
				temp = h
			}
		case KindLoad:
			if load == nil {
				load = h
			}
		}
	}
	return temp, load
}

func findByID(handles []Handle, prev *Handle) *Handle {
	if prev == nil {
		return nil
	}
	for i := range handles {
		if handles[i].ID == prev.ID {
			return &handles[i]
		}
	}
	return nil
}

// Tick advances the temperature state machine by one metrics tick and
// returns the status-qualified reading.
func (m *Monitor) Tick() domain.TempResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	found, withValue := 0, 0
	for _, h := range m.handles {
		if h.Kind != KindTemperature {
			continue
		}
		if h.DeviceKind != DeviceCPU && h.DeviceKind != DeviceMotherboard {
			continue
		}
		found++
		if _, ok := h.ValidValue(); ok {
			withValue++
		}
	}

	res, diag := m.st.Tick(m.sel, found, withValue)
	m.lastRes = res
	m.lastDiag = diag
	return res
}

// Last returns the most recent result and diagnostics without
// advancing the state machine.
func (m *Monitor) Last() (domain.TempResult, domain.TempDiagnostics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRes, m.lastDiag
}

// GPU returns the current GPU load and temperature readings, nil when
// no GPU sensor is selected or its value is invalid.
func (m *Monitor) GPU() (load, temp *float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gpuLoad != nil && m.gpuLoad.Value != nil {
		load = m.gpuLoad.Value
	}
	if m.gpuTemp != nil {
		if v, ok := m.gpuTemp.ValidValue(); ok {
			temp = &v
		}
	}
	return load, temp
}

// Sensors lists the most recent enumeration for the debug endpoint.
func (m *Monitor) Sensors() []domain.SensorRow {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]domain.SensorRow, 0, len(m.handles))
	for _, h := range m.handles {
		row := domain.SensorRow{
			Hardware:     h.Device,
			HardwareKind: string(h.DeviceKind),
			Sensor:       h.Name,
			Kind:         string(h.Kind),
			Raw:          h.Value,
			ID:           h.ID,
		}
		if v, ok := h.ValidValue(); ok {
			row.Value = &v
			row.Valid = true
		}
		rows = append(rows, row)
	}
	return rows
}
