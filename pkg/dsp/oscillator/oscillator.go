// Package oscillator provides phase accumulators and simple periodic
// sources for the coloring, interference and ambience stages.
package oscillator

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/dsp"
)

// Phase is a radian accumulator kept in [0, 2π).
type Phase struct {
	value float64
}

// Value returns the current phase.
func (p *Phase) Value() float64 {
	return p.value
}

// Set moves the phase, wrapping it into range.
func (p *Phase) Set(phase float64) {
	p.value = dsp.WrapPhase(phase)
}

// Advance adds inc radians and returns the new phase.
func (p *Phase) Advance(inc float64) float64 {
	p.value += inc
	if p.value >= dsp.TwoPi || p.value < 0 {
		p.value = dsp.WrapPhase(p.value)
	}
	return p.value
}

// Reset returns the phase to zero.
func (p *Phase) Reset() {
	p.value = 0
}

// Sanitize zeroes a non-finite phase.
func (p *Phase) Sanitize() bool {
	if !dsp.IsFinite(p.value) {
		p.value = 0
		return true
	}
	return false
}

// Oscillator generates periodic waveforms at a frequency in Hz. Its phase
// is kept in cycles, [0, 1).
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseInc   float64
}

// New creates a new oscillator at 440 Hz.
func New(sampleRate float64) *Oscillator {
	return &Oscillator{
		sampleRate: sampleRate,
		frequency:  440.0,
		phaseInc:   440.0 / sampleRate,
	}
}

// SetFrequency sets the oscillator frequency
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// Frequency returns the oscillator frequency.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SetSampleRate keeps the frequency and recomputes the increment.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
	o.phaseInc = o.frequency / sampleRate
}

// SetPhase sets the oscillator phase (0-1)
func (o *Oscillator) SetPhase(phase float64) {
	o.phase = phase - math.Floor(phase)
}

// Cycle returns the current phase in cycles.
func (o *Oscillator) Cycle() float64 {
	return o.phase
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0.0
}

func (o *Oscillator) updatePhase() {
	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Sine generates a sine wave sample
func (o *Oscillator) Sine() float32 {
	sample := float32(math.Sin(2.0 * math.Pi * o.phase))
	o.updatePhase()
	return sample
}

// Pulse is 1 for the first width of each cycle and 0 otherwise.
func (o *Oscillator) Pulse(width float64) float32 {
	var sample float32
	if o.phase < width {
		sample = 1.0
	}
	o.updatePhase()
	return sample
}

// ProcessSine fills buffer with a sine wave.
func (o *Oscillator) ProcessSine(buffer []float32) {
	for i := range buffer {
		buffer[i] = o.Sine()
	}
}
