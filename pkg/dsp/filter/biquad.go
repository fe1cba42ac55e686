// Package filter provides the biquad and state-variable filters used by the
// phone voice path, and the switchable Cut stage built on them.
package filter

import (
	"math"
	"math/cmplx"
)

// Biquad implements a second-order IIR filter (biquad)
// Direct Form I implementation with pre-allocated state
type Biquad struct {
	// Coefficients
	a1, a2     float32 // denominator (a0 is always normalized to 1.0)
	b0, b1, b2 float32 // numerator

	// State variables (per-channel)
	x1, x2 []float32 // input delay line
	y1, y2 []float32 // output delay line
}

// NewBiquad creates a new biquad filter for the specified number of channels
func NewBiquad(channels int) *Biquad {
	return &Biquad{
		b0: 1.0,
		x1: make([]float32, channels),
		x2: make([]float32, channels),
		y1: make([]float32, channels),
		y2: make([]float32, channels),
	}
}

// Channels returns the number of channels the filter holds state for
func (b *Biquad) Channels() int {
	return len(b.x1)
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	clear(b.x1)
	clear(b.x2)
	clear(b.y1)
	clear(b.y2)
}

// Sanitize clears the state of any channel holding a non-finite value and
// reports whether it had to.
func (b *Biquad) Sanitize() bool {
	reset := false
	for ch := range b.x1 {
		if !finite(b.x1[ch]) || !finite(b.x2[ch]) || !finite(b.y1[ch]) || !finite(b.y2[ch]) {
			b.x1[ch], b.x2[ch], b.y1[ch], b.y2[ch] = 0, 0, 0, 0
			reset = true
		}
	}
	return reset
}

// SetCoefficients sets the filter coefficients directly
func (b *Biquad) SetCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	// Normalize by a0
	invA0 := 1.0 / a0
	b.b0 = float32(b0 * invA0)
	b.b1 = float32(b1 * invA0)
	b.b2 = float32(b2 * invA0)
	b.a1 = float32(a1 * invA0)
	b.a2 = float32(a2 * invA0)
}

// ProcessSample filters one sample of one channel
func (b *Biquad) ProcessSample(x0 float32, channel int) float32 {
	y0 := b.b0*x0 + b.b1*b.x1[channel] + b.b2*b.x2[channel] - b.a1*b.y1[channel] - b.a2*b.y2[channel]

	b.x2[channel] = b.x1[channel]
	b.x1[channel] = x0
	b.y2[channel] = b.y1[channel]
	b.y1[channel] = y0

	return y0
}

// Process applies the filter to a buffer (single channel) - no allocations
func (b *Biquad) Process(buffer []float32, channel int) {
	// Get state for this channel
	x1 := b.x1[channel]
	x2 := b.x2[channel]
	y1 := b.y1[channel]
	y2 := b.y2[channel]

	for i := range buffer {
		x0 := buffer[i]

		// Direct Form I
		y0 := b.b0*x0 + b.b1*x1 + b.b2*x2 - b.a1*y1 - b.a2*y2

		x2 = x1
		x1 = x0
		y2 = y1
		y1 = y0

		buffer[i] = y0
	}

	// Save state
	b.x1[channel] = x1
	b.x2[channel] = x2
	b.y1[channel] = y1
	b.y2[channel] = y2
}

// ProcessMulti applies the filter to multiple channels - no allocations
func (b *Biquad) ProcessMulti(buffers [][]float32) {
	for ch, buffer := range buffers {
		if ch < len(b.x1) {
			b.Process(buffer, ch)
		}
	}
}

// MagnitudeDB returns the analytic response of the current coefficients at
// frequency, in dB.
func (b *Biquad) MagnitudeDB(sampleRate, frequency float64) float64 {
	z := cmplx.Exp(complex(0, -2*math.Pi*frequency/sampleRate))
	z2 := z * z
	num := complex(float64(b.b0), 0) + complex(float64(b.b1), 0)*z + complex(float64(b.b2), 0)*z2
	den := 1 + complex(float64(b.a1), 0)*z + complex(float64(b.a2), 0)*z2
	mag := cmplx.Abs(num / den)
	if mag <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(mag)
}

// Design functions (RBJ cookbook)

// SetLowpass configures as a lowpass filter
func (b *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2.0 * q)

	b.SetCoefficients(
		(1.0-cosOmega)/2.0, 1.0-cosOmega, (1.0-cosOmega)/2.0,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// SetHighpass configures as a highpass filter
func (b *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2.0 * q)

	b.SetCoefficients(
		(1.0+cosOmega)/2.0, -(1.0 + cosOmega), (1.0+cosOmega)/2.0,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// SetBandpass configures as a bandpass filter (constant skirt gain)
func (b *Biquad) SetBandpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2.0 * q)

	b.SetCoefficients(
		alpha, 0, -alpha,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
