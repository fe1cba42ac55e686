package envelope

import "math"

// Decay is a one-shot exponential decay. Trigger sets the level and Next
// multiplies it by a fixed per-sample coefficient until it falls below
// the idle floor.
type Decay struct {
	sampleRate float64
	seconds    float64
	coef       float64
	value      float64
}

// IdleLevel is the level under which a Decay stops.
const IdleLevel = 1e-4

// NewDecay creates a decay whose level falls by 1/e every seconds.
func NewDecay(sampleRate, seconds float64) *Decay {
	d := &Decay{sampleRate: sampleRate}
	d.SetTime(seconds)
	return d
}

// calcCoef calculates exponential coefficient for a given time
func calcCoef(timeSeconds, sampleRate float64) float64 {
	if timeSeconds <= 0.0 {
		return 0.0
	}
	return math.Exp(-1.0 / (timeSeconds * sampleRate))
}

// SetTime sets the decay time constant in seconds.
func (d *Decay) SetTime(seconds float64) {
	d.seconds = math.Max(0.0001, seconds)
	d.coef = calcCoef(d.seconds, d.sampleRate)
}

// SetSampleRate recomputes the coefficient for a new rate.
func (d *Decay) SetSampleRate(sampleRate float64) {
	d.sampleRate = sampleRate
	d.coef = calcCoef(d.seconds, d.sampleRate)
}

// Trigger restarts the decay at level.
func (d *Decay) Trigger(level float64) {
	d.value = level
}

// IsActive reports whether the decay is still audible.
func (d *Decay) IsActive() bool {
	return d.value > IdleLevel
}

// Value returns the current level without advancing.
func (d *Decay) Value() float64 {
	return d.value
}

// Next returns the current level and advances one sample.
func (d *Decay) Next() float64 {
	if d.value <= IdleLevel {
		d.value = 0
		return 0
	}
	v := d.value
	d.value *= d.coef
	return v
}

// Reset silences the decay.
func (d *Decay) Reset() {
	d.value = 0
}
