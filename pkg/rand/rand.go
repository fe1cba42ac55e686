// Package rand provides the seedable random source used by every stochastic
// stage. Each processing instance owns its generators; nothing here touches
// global state so runs are reproducible from a seed.
package rand

import (
	"github.com/MichaelTJones/pcg"
)

// Stream selectors keep independent generators seeded from one user seed
// from producing correlated sequences.
const (
	StreamEngine       uint64 = 0xda3e39cb94b95bdb
	StreamEffects      uint64 = 0x9e3779b97f4a7c15
	StreamAmbience     uint64 = 0xbf58476d1ce4e5b9
	StreamInterference uint64 = 0x94d049bb133111eb
)

// Rand is a small PCG32 wrapper. The zero value is not usable; call New.
type Rand struct {
	r *pcg.PCG32
}

// New returns a generator seeded with seed on the given stream.
func New(seed int64, stream uint64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.r.Seed(uint64(seed), stream)
	return r
}

// Seed reseeds the generator in place.
func (r *Rand) Seed(seed int64, stream uint64) {
	r.r.Seed(uint64(seed), stream)
}

// Uint32 returns the next raw 32-bit value.
func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

// Float32 returns a value in [0, 1).
func (r *Rand) Float32() float32 {
	// 24 bits so the conversion can not round up to 1
	return float32(r.r.Random()>>8) / (1 << 24)
}

// Bipolar returns a value in [-1, 1).
func (r *Rand) Bipolar() float64 {
	return r.Float64()*2.0 - 1.0
}

// Bipolar32 is Bipolar for float32 audio paths.
func (r *Rand) Bipolar32() float32 {
	return r.Float32()*2 - 1
}

// Uniform returns a value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return r.Float64() < p
}
