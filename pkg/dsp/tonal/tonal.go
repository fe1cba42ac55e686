// Package tonal adds the per-phone timbral signature: a soft saturation of
// a slightly driven input plus a faint slow oscillator.
package tonal

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/dsp/oscillator"
	"github.com/justyntemme/retrocall/pkg/rand"
)

// Intensity scales the oscillator texture. It is fixed so the texture stays
// below the threshold of an audible tone.
const Intensity = 0.15

// ReferenceRate is the sample rate the phase rates are expressed at.
const ReferenceRate = 44100.0

// Curve is the saturation curve.
type Curve int

const (
	// Tanh is the smooth digital curve
	Tanh Curve = iota
	// Atan is the softer analog curve
	Atan
)

// Profile is the coloring of one archetype:
// out = OutGain*curve(in*Drive) + Depth*Intensity*sin(phase).
type Profile struct {
	Curve   Curve
	Drive   float64
	OutGain float64
	Depth   float64
	// Rate is the phase increment in radians per sample at ReferenceRate.
	Rate float64
	// Flutter adds up to Flutter radians of random increment per sample.
	Flutter float64
}

// Color runs a Profile over any number of channels, one phase per channel.
type Color struct {
	profile Profile
	phases  []oscillator.Phase
	scale   float64
	rng     *rand.Rand
}

// New creates a coloring stage. rng drives the flutter.
func New(profile Profile, channels int, sampleRate float64, rng *rand.Rand) *Color {
	c := &Color{
		profile: profile,
		phases:  make([]oscillator.Phase, channels),
		rng:     rng,
	}
	c.SetSampleRate(sampleRate)
	return c
}

// SetProfile switches the archetype. Phases carry over.
func (c *Color) SetProfile(p Profile) {
	c.profile = p
}

// SetSampleRate rescales the phase rates.
func (c *Color) SetSampleRate(sampleRate float64) {
	c.scale = ReferenceRate / sampleRate
}

// Reset zeroes the phases.
func (c *Color) Reset() {
	for i := range c.phases {
		c.phases[i].Reset()
	}
}

// Sanitize zeroes non-finite phases.
func (c *Color) Sanitize() bool {
	fixed := false
	for i := range c.phases {
		if c.phases[i].Sanitize() {
			fixed = true
		}
	}
	return fixed
}

// Process colors one sample of channel ch.
func (c *Color) Process(x float32, ch int) float32 {
	p := &c.profile

	inc := p.Rate
	if p.Flutter > 0 {
		inc += p.Flutter * c.rng.Float64()
	}
	phase := c.phases[ch].Advance(inc * c.scale)

	in := float64(x) * p.Drive
	var sat float64
	switch p.Curve {
	case Atan:
		sat = math.Atan(in)
	default:
		sat = math.Tanh(in)
	}

	return float32(p.OutGain*sat + p.Depth*Intensity*math.Sin(phase))
}
