package domain

import "time"

// Snapshot is the aggregate published once per tick. Nullable metric
// fields are pointers so unavailable readings serialize as explicit
// null; optional sections are omitted entirely.
type Snapshot struct {
	Time time.Time `json:"time"`

	CPUPercent *float64 `json:"cpuPercent"`

	CPUTempC      *float64        `json:"cpuTempC"`
	CPUTempSource *string         `json:"cpuTempSource"`
	CPUTempStatus TempStatus      `json:"cpuTempStatus"`
	CPUTempHint   string          `json:"cpuTempHint,omitempty"`
	CPUTempDiag   TempDiagnostics `json:"cpuTempDiag"`

	GPUPercent *float64 `json:"gpuPercent"`
	GPUTempC   *float64 `json:"gpuTempC"`

	RAMTotalMB *float64 `json:"ramTotalMb"`
	RAMUsedMB  *float64 `json:"ramUsedMb"`
	RAMPercent *float64 `json:"ramPercent"`

	NetInterface   string   `json:"netInterface,omitempty"`
	NetSendKbps    *float64 `json:"netSendKbps"`
	NetReceiveKbps *float64 `json:"netReceiveKbps"`

	Series       *NetSeries    `json:"series,omitempty"`
	TopProcesses []ProcessInfo `json:"topProcesses,omitempty"`

	Errors []string `json:"errors"`
}

// NetSeries holds the last 60 per-tick throughput samples, oldest first.
type NetSeries struct {
	SendKbps    []float64 `json:"sendKbps"`
	ReceiveKbps []float64 `json:"receiveKbps"`
}

type ProcessInfo struct {
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpuPercent"`
	RAMPercent float64 `json:"ramPercent"`
	GPUPercent float64 `json:"gpuPercent"`
}

// SensorRow is one raw enumerated sensor as exposed on the debug
// sensor listing, including synthetic thermal-zone entries.
type SensorRow struct {
	Hardware     string   `json:"hardware"`
	HardwareKind string   `json:"hardwareKind"`
	Sensor       string   `json:"sensor"`
	Kind         string   `json:"kind"`
	Value        *float64 `json:"value"`
	Valid        bool     `json:"valid"`
	Raw          *float64 `json:"raw"`
	ID           string   `json:"id"`
}

type RuntimeStats struct {
	ConnectedClients int       `json:"connectedClients"`
	LastTick         time.Time `json:"lastTick"`
	AvgTickMs        float64   `json:"avgTickMs"`
}

func Float(v float64) *float64 {
	return &v
}

func String(v string) *string {
	return &v
}
