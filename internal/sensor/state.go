package sensor

import (
	"math"

	"pulsedeck/internal/domain"
)

const (
	warmupBudget       = 5
	noValuesThreshold  = 10
	invalidScanTrigger = 5
)

const (
	hintNoSensors = "No temperature sensors were found. The sensor driver may be blocked; try running as administrator."
	hintWarmingUp = "Waiting for the first valid sensor reading."
	hintNoValues  = "Sensor value not available yet. Try running as administrator."
)

// state tracks one sensor selection's validity over time, smoothing
// transient hiccups and distinguishing "not supported" from
// "temporarily unavailable".
type state struct {
	warmupLeft      int
	ticksSinceValid int
	lastValid       *float64
}

func newState() state {
	return state{warmupLeft: warmupBudget}
}

// Tick consumes one reading attempt and emits a status-qualified
// result plus a fresh diagnostics snapshot.
func (s *state) Tick(sel Selection, found, withValue int) (domain.TempResult, domain.TempDiagnostics) {
	res := s.resolve(sel, found)
	diag := domain.TempDiagnostics{
		SensorsFound:     found,
		SensorsWithValue: withValue,
		LastValidValue:   s.lastValid,
		TicksSinceValid:  s.ticksSinceValid,
		WarmupTicksLeft:  s.warmupLeft,
	}
	if sel.Primary != nil {
		diag.SelectedSensor = sel.Primary.ID
	}
	if sel.Distance != nil {
		diag.DerivedSensor = sel.Distance.ID
	}
	return res, diag
}

func (s *state) resolve(sel Selection, found int) domain.TempResult {
	if sel.Primary != nil {
		if v, ok := sel.Primary.ValidValue(); ok {
			return s.valid(v, sel.Source)
		}
	}

	if sel.Distance != nil && sel.Distance.Value != nil {
		derived := sel.Ceiling - *sel.Distance.Value
		if ValidCelsius(derived) {
			return s.valid(derived, sel.Distance.Name+" (derived)")
		}
	}

	if found == 0 {
		s.ticksSinceValid++
		return domain.TempResult{Status: domain.TempStatusNoSensors, Hint: hintNoSensors}
	}

	s.ticksSinceValid++

	if s.warmupLeft > 0 {
		s.warmupLeft--
		return domain.TempResult{Status: domain.TempStatusWarmingUp, Hint: hintWarmingUp}
	}

	if s.ticksSinceValid >= noValuesThreshold {
		return domain.TempResult{Status: domain.TempStatusNoValues, Hint: hintNoValues}
	}

	return domain.TempResult{Status: domain.TempStatusWarmingUp, Hint: hintWarmingUp}
}

func (s *state) valid(v float64, source string) domain.TempResult {
	rounded := math.Round(v*10) / 10
	s.ticksSinceValid = 0
	s.warmupLeft = 0
	s.lastValid = &rounded

	return domain.TempResult{
		ValueC: &rounded,
		Source: &source,
		Status: domain.TempStatusOK,
	}
}

// ConsecutiveInvalid reports how many ticks in a row produced no valid
// reading; the scanner rescans once this reaches invalidScanTrigger.
func (s *state) ConsecutiveInvalid() int {
	return s.ticksSinceValid
}
