package sensor

import "testing"

func temp(id, device string, kind DeviceKind, name string, value *float64) Handle {
	return Handle{
		ID:         id,
		Device:     device,
		DeviceKind: kind,
		Name:       name,
		Kind:       KindTemperature,
		Value:      value,
	}
}

func f(v float64) *float64 {
	return &v
}

func TestSelectCPUSensor_PackageBeatsValuedCore(t *testing.T) {
	handles := []Handle{
		temp("a", "cpu0", DeviceCPU, "CPU Package", nil),
		temp("b", "cpu0", DeviceCPU, "Core #1", f(55)),
	}

	sel := SelectCPUSensor(handles)
	if sel.Primary == nil {
		t.Fatal("expected a primary selection")
	}
	if sel.Primary.ID != "a" {
		t.Fatalf("expected package sensor despite missing value, got %q", sel.Primary.Name)
	}
}

func TestSelectCPUSensor_TctlTier(t *testing.T) {
	handles := []Handle{
		temp("a", "cpu0", DeviceCPU, "Core #1", f(40)),
		temp("b", "cpu0", DeviceCPU, "Tctl/Tdie", f(52)),
	}

	sel := SelectCPUSensor(handles)
	if sel.Primary == nil || sel.Primary.ID != "b" {
		t.Fatalf("expected Tctl sensor, got %+v", sel.Primary)
	}
}

func TestSelectCPUSensor_CoreTierPicksHottest(t *testing.T) {
	handles := []Handle{
		temp("a", "cpu0", DeviceCPU, "Core #1", f(40)),
		temp("b", "cpu0", DeviceCPU, "Core #2", f(63)),
		temp("c", "cpu0", DeviceCPU, "Core #3", nil),
	}

	sel := SelectCPUSensor(handles)
	if sel.Primary == nil || sel.Primary.ID != "b" {
		t.Fatalf("expected hottest core, got %+v", sel.Primary)
	}
}

func TestSelectCPUSensor_CoreTierNoValuesPicksFirst(t *testing.T) {
	handles := []Handle{
		temp("a", "cpu0", DeviceCPU, "Core #1", nil),
		temp("b", "cpu0", DeviceCPU, "Core #2", nil),
	}

	sel := SelectCPUSensor(handles)
	if sel.Primary == nil || sel.Primary.ID != "a" {
		t.Fatalf("expected first core, got %+v", sel.Primary)
	}
}

func TestSelectCPUSensor_FallbackHottestAcrossAll(t *testing.T) {
	handles := []Handle{
		temp("a", "board", DeviceMotherboard, "SYSTIN", f(35)),
		temp("b", "board", DeviceMotherboard, "AUXTIN", f(48)),
	}

	sel := SelectCPUSensor(handles)
	if sel.Primary == nil || sel.Primary.ID != "b" {
		t.Fatalf("expected hottest fallback sensor, got %+v", sel.Primary)
	}
}

func TestSelectCPUSensor_IgnoresGPUAndLoadSensors(t *testing.T) {
	load := temp("a", "gpu0", DeviceGPU, "GPU Core", f(90))
	load.Kind = KindLoad

	handles := []Handle{
		load,
		temp("b", "gpu0", DeviceGPU, "GPU Core", f(80)),
	}

	sel := SelectCPUSensor(handles)
	if sel.Primary != nil {
		t.Fatalf("expected no selection from GPU-only handles, got %+v", sel.Primary)
	}
}

func TestSelectCPUSensor_DistancePrefersCoreMax(t *testing.T) {
	plain := temp("a", "cpu0", DeviceCPU, "Core #1 Distance to TJMax", f(40))
	plain.Params = map[string]float64{tjmaxParam: 100}
	coremax := temp("b", "cpu0", DeviceCPU, "Core Max Distance to TJMax", f(38))
	coremax.Params = map[string]float64{tjmaxParam: 100}

	sel := SelectCPUSensor([]Handle{plain, coremax})
	if sel.Distance == nil || sel.Distance.ID != "b" {
		t.Fatalf("expected core max distance sensor, got %+v", sel.Distance)
	}
	if sel.Ceiling != 100 {
		t.Fatalf("expected ceiling 100, got %v", sel.Ceiling)
	}
}

func TestSelectCPUSensor_DistanceCeilingOutOfBounds(t *testing.T) {
	for _, ceiling := range []float64{59, 131, 0} {
		h := temp("a", "cpu0", DeviceCPU, "Core Max Distance to TJMax", f(40))
		h.Params = map[string]float64{tjmaxParam: ceiling}

		sel := SelectCPUSensor([]Handle{h})
		if sel.Distance != nil {
			t.Fatalf("ceiling %v should reject the distance sensor", ceiling)
		}
	}
}

func TestValidValue_Range(t *testing.T) {
	cases := []struct {
		value float64
		ok    bool
	}{
		{0, true},
		{120, true},
		{62.5, true},
		{-1, false},
		{121, false},
	}

	for _, tc := range cases {
		h := temp("a", "cpu0", DeviceCPU, "CPU Package", f(tc.value))
		if _, ok := h.ValidValue(); ok != tc.ok {
			t.Errorf("value %v: valid=%v, want %v", tc.value, ok, tc.ok)
		}
	}

	h := temp("a", "cpu0", DeviceCPU, "CPU Package", nil)
	if _, ok := h.ValidValue(); ok {
		t.Error("absent value should not be valid")
	}
}
