package core

import (
	"math"
	"strconv"
)

// SimpleRNG is a deterministic pseudo-random number generator.
// Uses a simple LCG (Linear Congruential Generator). The whole stream is
// captured by a single uint64, which snapshots and replays persist.
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a new RNG with the given seed.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next generates the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// IntRange returns a random int in [lo, hi], both inclusive.
func (r *SimpleRNG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Float64 returns a random float64 in [0, 1).
func (r *SimpleRNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// Range returns a random float64 in [lo, hi).
func (r *SimpleRNG) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Spread returns a random offset in [-amount, amount).
func (r *SimpleRNG) Spread(amount float64) float64 {
	return (r.Float64()*2 - 1) * amount
}

// InDisc returns a uniformly distributed point in a disc of the given radius.
// Draws the angle first, then the radius.
func (r *SimpleRNG) InDisc(radius float64) Vec2 {
	a := r.Float64() * 2 * math.Pi
	d := math.Sqrt(r.Float64()) * radius
	return FromAngle(a).Scale(d)
}

// State returns the raw generator state.
func (r *SimpleRNG) State() uint64 {
	return r.state
}

// SetState restores a state previously returned by State.
func (r *SimpleRNG) SetState(s uint64) {
	r.state = s
}

// MarshalJSON encodes the generator as its decimal state.
func (r SimpleRNG) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(r.state, 10)), nil
}

// UnmarshalJSON restores the generator from its decimal state.
func (r *SimpleRNG) UnmarshalJSON(data []byte) error {
	s, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	r.state = s
	return nil
}
