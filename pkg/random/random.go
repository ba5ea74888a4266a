package random

// Mulberry32 is a small deterministic 32-bit PRNG.
// The same seed always yields the same sequence, which is what colour
// derivation needs: identical keys must map to identical colours.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator seeded with seed
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Next returns the next raw 32-bit value
func (m *Mulberry32) Next() uint32 {
	m.state += 0x6d2b79f5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a value in [0, 1)
func (m *Mulberry32) Float64() float64 {
	return float64(m.Next()) / 4294967296
}

// Intn returns a value in [0, n) by scaling Float64.
// Returns 0 when n <= 0.
func (m *Mulberry32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(m.Float64() * float64(n))
}

// Jitter returns a value in [-spread/2, spread/2)
func (m *Mulberry32) Jitter(spread float64) float64 {
	return (m.Float64() - 0.5) * spread
}

// Pick returns one element of levels chosen by the generator
func Pick[T any](m *Mulberry32, levels []T) T {
	var zero T
	if len(levels) == 0 {
		return zero
	}
	return levels[m.Intn(len(levels))]
}
