package metrics

// Ring is a fixed-capacity circular buffer of per-tick samples.
// Appends wrap around, dropping the oldest sample once full.
type Ring struct {
	buf  []float64
	next int
	full bool
}

func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]float64, capacity)}
}

func (r *Ring) Append(v float64) {
	r.buf[r.next] = v
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

func (r *Ring) Len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Snapshot returns the samples oldest-first regardless of where the
// write cursor sits.
func (r *Ring) Snapshot() []float64 {
	if !r.full {
		out := make([]float64, r.next)
		copy(out, r.buf[:r.next])
		return out
	}

	out := make([]float64, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}
