package sensor

import "strings"

// Selection is the outcome of one scan pass: the primary CPU
// temperature candidate plus, when present, a distance-to-TJMax sensor
// and its reference ceiling for deriving a temperature.
type Selection struct {
	Primary *Handle
	Source  string

	Distance *Handle
	Ceiling  float64
}

const (
	tjmaxParam   = "TJMax"
	tjmaxCeilMin = 60
	tjmaxCeilMax = 130
)

// SelectCPUSensor picks the best "CPU package temperature" candidate
// from CPU and Motherboard temperature sensors. Name tiers are tried
// in order of decreasing semantic precision; a higher tier wins even
// when its sensor currently reports no value.
func SelectCPUSensor(handles []Handle) Selection {
	candidates := make([]Handle, 0, len(handles))
	for _, h := range handles {
		if h.Kind != KindTemperature {
			continue
		}
		if h.DeviceKind != DeviceCPU && h.DeviceKind != DeviceMotherboard {
			continue
		}
		candidates = append(candidates, h)
	}

	sel := Selection{}
	if primary, source := pickPrimary(candidates); primary != nil {
		sel.Primary = primary
		sel.Source = source
	}

	if distance := pickDistance(handles); distance != nil {
		if ceiling, ok := distance.Param(tjmaxParam); ok && ceiling >= tjmaxCeilMin && ceiling <= tjmaxCeilMax {
			sel.Distance = distance
			sel.Ceiling = ceiling
		}
	}

	return sel
}

func pickPrimary(candidates []Handle) (*Handle, string) {
	if len(candidates) == 0 {
		return nil, ""
	}

	if h := firstNamed(candidates, "package"); h != nil {
		return h, h.Name
	}
	if h := firstNamed(candidates, "tctl", "tdie"); h != nil {
		return h, h.Name
	}
	if h := firstNamed(candidates, "core max", "ccd"); h != nil {
		return h, h.Name
	}

	cores := filterNamed(candidates, "core")
	if len(cores) > 0 {
		return hottestOrFirst(cores), "Hottest core"
	}

	return hottestOrFirst(candidates), "Hottest sensor"
}

// pickDistance selects a "degrees below TJMax" style sensor, preferring
// one scoped to the hottest core ("Core Max").
func pickDistance(handles []Handle) *Handle {
	var fallback *Handle
	for i := range handles {
		h := &handles[i]
		if h.Kind != KindTemperature {
			continue
		}
		name := strings.ToLower(h.Name)
		if !strings.Contains(name, "distance") || !strings.Contains(name, "tjmax") {
			continue
		}
		if strings.Contains(name, "core max") {
			return h
		}
		if fallback == nil {
			fallback = h
		}
	}
	return fallback
}

func firstNamed(candidates []Handle, substrings ...string) *Handle {
	for i := range candidates {
		name := strings.ToLower(candidates[i].Name)
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return &candidates[i]
			}
		}
	}
	return nil
}

func filterNamed(candidates []Handle, sub string) []Handle {
	out := make([]Handle, 0, len(candidates))
	for _, h := range candidates {
		if strings.Contains(strings.ToLower(h.Name), sub) {
			out = append(out, h)
		}
	}
	return out
}

// hottestOrFirst returns the candidate with the highest currently-valid
// reading, or the first candidate when none report a valid value.
func hottestOrFirst(candidates []Handle) *Handle {
	var hottest *Handle
	var hottestValue float64
	for i := range candidates {
		v, ok := candidates[i].ValidValue()
		if !ok {
			continue
		}
		if hottest == nil || v > hottestValue {
			hottest = &candidates[i]
			hottestValue = v
		}
	}
	if hottest != nil {
		return hottest
	}
	return &candidates[0]
}
