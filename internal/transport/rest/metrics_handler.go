package rest

import (
	"net/http"
	"time"

	"pulsedeck/internal/domain"
	"pulsedeck/internal/metrics"
	"pulsedeck/internal/sensor"
	"pulsedeck/internal/storage/snapshot"
	"pulsedeck/internal/temperature"
)

type MetricsHandler struct {
	store   *snapshot.MetricsStore
	loop    *metrics.Loop
	monitor *sensor.Monitor
}

func NewMetricsHandler(store *snapshot.MetricsStore, loop *metrics.Loop, monitor *sensor.Monitor) *MetricsHandler {
	return &MetricsHandler{
		store:   store,
		loop:    loop,
		monitor: monitor,
	}
}

func (h *MetricsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now(),
	})
}

func (h *MetricsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Get())
}

// Sensors lists the raw enumerated hardware sensors plus synthetic
// thermal-zone rows, for operator debugging.
func (h *MetricsHandler) Sensors(w http.ResponseWriter, r *http.Request) {
	rows := h.monitor.Sensors()
	rows = append(rows, temperature.ZoneSensorRows(r.Context())...)
	if rows == nil {
		rows = []domain.SensorRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *MetricsHandler) CPUTempDebug(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Get()
	_, diag := h.monitor.Last()

	writeJSON(w, http.StatusOK, map[string]any{
		"result": domain.TempResult{
			ValueC: snap.CPUTempC,
			Source: snap.CPUTempSource,
			Status: snap.CPUTempStatus,
			Hint:   snap.CPUTempHint,
		},
		"diagnostics": diag,
	})
}

func (h *MetricsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loop.Stats())
}
