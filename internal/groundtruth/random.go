package groundtruth

// Random is the linear congruential generator that drives dataset
// generation. One instance is shared by every category so the order in
// which values are drawn is fixed.
type Random struct {
	state uint32
}

// NewRandom seeds a generator.
func NewRandom(seed uint32) *Random {
	return &Random{state: seed}
}

// Float returns the next value in [0, 1). The state advances as
// state = (state*1664525 + 1013904223) mod 2^32.
func (r *Random) Float() float64 {
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / 4294967296.0
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Float() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns a value in [lo, hi).
func (r *Random) Between(lo, hi float64) float64 {
	return lo + r.Float()*(hi-lo)
}

// Pick returns a random element of items, or the zero value when empty.
func Pick[T any](r *Random, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Intn(len(items))]
}

// Shuffle returns a shuffled copy of items using Fisher-Yates.
func Shuffle[T any](r *Random, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
