// Package utility provides noise sources and small corrective processors.
package utility

import (
	"github.com/justyntemme/retrocall/pkg/rand"
)

// NoiseType represents different types of noise.
type NoiseType int

const (
	// WhiteNoise has equal energy at all frequencies
	WhiteNoise NoiseType = iota
	// PinkNoise has equal energy per octave (1/f spectrum)
	PinkNoise
	// BrownNoise has 1/f² spectrum (Brownian noise)
	BrownNoise
)

func (t NoiseType) String() string {
	switch t {
	case PinkNoise:
		return "pink"
	case BrownNoise:
		return "brown"
	default:
		return "white"
	}
}

// NoiseGenerator generates noise from a caller-owned random source, so a
// seeded source gives the same noise every run.
type NoiseGenerator struct {
	noiseType NoiseType

	// Pink noise state (Voss-McCartney algorithm)
	pinkRows       [16]float32
	pinkRunningSum float32
	pinkIndex      int

	// Brown noise state
	brownState float32

	rng *rand.Rand
}

const pinkScalar = 1.0 / 5.0

// NewNoiseGenerator creates a new noise generator drawing from rng.
func NewNoiseGenerator(noiseType NoiseType, rng *rand.Rand) *NoiseGenerator {
	gen := &NoiseGenerator{
		noiseType: noiseType,
		rng:       rng,
	}
	gen.Reset()
	return gen
}

// SetType changes the noise type.
func (n *NoiseGenerator) SetType(noiseType NoiseType) {
	n.noiseType = noiseType
}

// Type returns the current noise type.
func (n *NoiseGenerator) Type() NoiseType {
	return n.noiseType
}

// Next generates the next noise sample in [-1, 1].
func (n *NoiseGenerator) Next() float32 {
	switch n.noiseType {
	case PinkNoise:
		return n.generatePink()
	case BrownNoise:
		return n.generateBrown()
	default:
		return n.rng.Bipolar32()
	}
}

// Generate fills a buffer with noise.
func (n *NoiseGenerator) Generate(buffer []float32) {
	for i := range buffer {
		buffer[i] = n.Next()
	}
}

// GenerateAdd adds noise to an existing buffer.
func (n *NoiseGenerator) GenerateAdd(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] += n.Next() * gain
	}
}

// Reset clears the filter state and refills the pink rows from the source.
func (n *NoiseGenerator) Reset() {
	n.brownState = 0
	n.pinkIndex = 0
	n.pinkRunningSum = 0
	for i := range n.pinkRows {
		n.pinkRows[i] = n.rng.Bipolar32()
		n.pinkRunningSum += n.pinkRows[i]
	}
}

// generatePink generates pink noise using Voss-McCartney algorithm.
func (n *NoiseGenerator) generatePink() float32 {
	n.pinkIndex = (n.pinkIndex + 1) & 0xffff

	// Update the row picked by the number of trailing zeros of the index
	if n.pinkIndex != 0 {
		numZeros := 0
		temp := n.pinkIndex
		for (temp & 1) == 0 {
			temp >>= 1
			numZeros++
		}

		n.pinkRunningSum -= n.pinkRows[numZeros]
		n.pinkRows[numZeros] = n.rng.Bipolar32()
		n.pinkRunningSum += n.pinkRows[numZeros]
	}

	output := (n.pinkRunningSum + n.rng.Bipolar32()) * pinkScalar
	return clampUnit(output)
}

// generateBrown generates brown noise (integrated white noise).
func (n *NoiseGenerator) generateBrown() float32 {
	n.brownState += n.rng.Bipolar32() * 0.0625

	// Leaky integrator to prevent DC buildup
	n.brownState *= 0.997
	n.brownState = clampUnit(n.brownState)

	return n.brownState
}

func clampUnit(v float32) float32 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}
