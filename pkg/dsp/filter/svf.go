package filter

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/dsp"
)

// SVF implements a state variable filter
// Provides simultaneous lowpass, highpass and bandpass outputs
// Zero-delay feedback topology
type SVF struct {
	// Filter parameters
	g float32 // frequency coefficient
	k float32 // damping coefficient (1/Q)

	// State variables (per-channel)
	ic1eq []float32 // integrator 1 state
	ic2eq []float32 // integrator 2 state
}

// SVFOutputs holds all filter outputs
type SVFOutputs struct {
	Lowpass  float32
	Highpass float32
	Bandpass float32
}

// NewSVF creates a new state variable filter for the specified number of channels
func NewSVF(channels int) *SVF {
	return &SVF{
		k:     1 / dsp.DefaultQ,
		ic1eq: make([]float32, channels),
		ic2eq: make([]float32, channels),
	}
}

// Reset clears the filter state
func (s *SVF) Reset() {
	clear(s.ic1eq)
	clear(s.ic2eq)
}

// Sanitize clears non-finite state and reports whether it had to
func (s *SVF) Sanitize() bool {
	reset := false
	for ch := range s.ic1eq {
		if !finite(s.ic1eq[ch]) || !finite(s.ic2eq[ch]) {
			s.ic1eq[ch], s.ic2eq[ch] = 0, 0
			reset = true
		}
	}
	return reset
}

// SetFrequencyAndQ sets both frequency and Q in one call. The frequency is
// kept below Nyquist.
func (s *SVF) SetFrequencyAndQ(sampleRate, frequency, q float64) {
	frequency = math.Min(frequency, sampleRate*0.49)
	// Pre-warp the frequency for the bilinear transform
	s.g = float32(math.Tan(math.Pi * frequency / sampleRate))
	if q > 0 {
		s.k = float32(1.0 / q)
	}
}

// ProcessSample processes a single sample and returns all outputs
func (s *SVF) ProcessSample(input float32, channel int) SVFOutputs {
	ic1eq := s.ic1eq[channel]
	ic2eq := s.ic2eq[channel]

	g := s.g
	k := s.k
	a1 := 1.0 / (1.0 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	v3 := input - ic2eq
	v1 := a1*ic1eq + a2*v3
	v2 := ic2eq + a2*ic1eq + a3*v3

	s.ic1eq[channel] = 2.0*v1 - ic1eq
	s.ic2eq[channel] = 2.0*v2 - ic2eq

	return SVFOutputs{
		Lowpass:  v2,
		Bandpass: v1,
		Highpass: input - k*v1 - v2,
	}
}
