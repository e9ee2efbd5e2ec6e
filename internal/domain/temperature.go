package domain

type TempStatus string

const (
	TempStatusOK                    TempStatus = "ok"
	TempStatusNoSensors             TempStatus = "no_sensors"
	TempStatusWarmingUp             TempStatus = "warming_up"
	TempStatusNoValues              TempStatus = "no_values"
	TempStatusWMIApprox             TempStatus = "wmi_approx"
	TempStatusExternalNotConfigured TempStatus = "external_not_configured"
)

// TempResult is one tick's answer to "what is the CPU temperature".
// ValueC and Source are nil when no reading could be produced; Status
// and Hint explain why.
type TempResult struct {
	ValueC *float64   `json:"valueC"`
	Source *string    `json:"source"`
	Status TempStatus `json:"status"`
	Hint   string     `json:"hint,omitempty"`
}

func (r TempResult) Valid() bool {
	return r.ValueC != nil
}

// TempDiagnostics is rebuilt on every tick regardless of status, for
// the debug endpoint. Never mutated after construction.
type TempDiagnostics struct {
	SensorsFound     int      `json:"sensorsFound"`
	SensorsWithValue int      `json:"sensorsWithValue"`
	LastValidValue   *float64 `json:"lastValidValue"`
	TicksSinceValid  int      `json:"ticksSinceValid"`
	WarmupTicksLeft  int      `json:"warmupTicksLeft"`
	SelectedSensor   string   `json:"selectedSensor,omitempty"`
	DerivedSensor    string   `json:"derivedSensor,omitempty"`
}
