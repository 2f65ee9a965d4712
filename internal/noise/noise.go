// Package noise provides a deterministic seeded noise source.
package noise

import "math"

// Sampler produces the next value of a noise sequence.
type Sampler func() float64

// minUniform keeps Box-Muller away from ln(0).
const minUniform = 1e-12

// NewUniform returns a sampler of uniform [0,1) values driven by a
// mulberry32-style integer recurrence. The sequence depends only on the
// seed: same seed, same sequence, on every platform. All state is 32-bit
// integer arithmetic; no floating-point accumulates between draws.
func NewUniform(seed uint32) Sampler {
	state := seed
	return func() float64 {
		state += 0x6d2b79f5
		t := state
		t = (t ^ (t >> 15)) * (t | 1)
		t ^= t + (t^(t>>7))*(t|61)
		t ^= t >> 14
		return float64(t) / 4294967296.0
	}
}

// NewGaussian returns a sampler of standard-normal values derived from two
// uniform draws per call via the Box-Muller transform.
func NewGaussian(seed uint32) Sampler {
	uniform := NewUniform(seed)
	return func() float64 {
		u1 := uniform()
		if u1 < minUniform {
			u1 = minUniform
		}
		u2 := uniform()
		return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	}
}

// Zero is the disabled-noise sampler. Callers keep the same call contract
// whether noise is on or off.
func Zero() float64 { return 0 }
