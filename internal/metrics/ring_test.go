package metrics

import "testing"

func TestRing_PartialFill(t *testing.T) {
	r := NewRing(60)
	r.Append(1)
	r.Append(2)
	r.Append(3)

	if r.Len() != 3 {
		t.Fatalf("Len() %d, want 3", r.Len())
	}

	got := r.Snapshot()
	if len(got) != 3 {
		t.Fatalf("len %d, want 3", len(got))
	}
	for i, want := range []float64{1, 2, 3} {
		if got[i] != want {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestRing_ExactCapacityKeepsAppendOrder(t *testing.T) {
	r := NewRing(60)
	for i := 0; i < 60; i++ {
		r.Append(float64(i))
	}

	got := r.Snapshot()
	if len(got) != 60 {
		t.Fatalf("len %d, want 60", len(got))
	}
	for i := 0; i < 60; i++ {
		if got[i] != float64(i) {
			t.Fatalf("index %d: got %v, want %v", i, got[i], float64(i))
		}
	}
}

func TestRing_OverflowDropsOldest(t *testing.T) {
	r := NewRing(60)
	for i := 0; i < 61; i++ {
		r.Append(float64(i))
	}

	got := r.Snapshot()
	if len(got) != 60 {
		t.Fatalf("len %d, want 60", len(got))
	}
	if got[0] != 1 {
		t.Fatalf("oldest sample %v, want 1 (0 dropped)", got[0])
	}
	if got[59] != 60 {
		t.Fatalf("newest sample %v, want 60", got[59])
	}
}

func TestRing_SnapshotIsACopy(t *testing.T) {
	r := NewRing(4)
	r.Append(1)

	got := r.Snapshot()
	got[0] = 99

	if r.Snapshot()[0] != 1 {
		t.Fatal("snapshot must not alias the internal buffer")
	}
}
