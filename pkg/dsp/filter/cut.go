package filter

import (
	"github.com/justyntemme/retrocall/pkg/dsp"
)

// Kind selects the response of a Cut.
type Kind int

const (
	// LowCut removes energy below the corner (high-pass).
	LowCut Kind = iota
	// HighCut removes energy above the corner (low-pass).
	HighCut
)

func (k Kind) String() string {
	if k == HighCut {
		return "High Cut"
	}
	return "Low Cut"
}

// MaxCornerRatio is the highest usable corner as a fraction of the sample
// rate. Corners at or above it leave the cut switched off.
const MaxCornerRatio = 0.45

// Cut is a switchable Butterworth-style high- or low-pass. A corner of 0
// switches it off, and an off Cut leaves the signal untouched.
type Cut struct {
	kind       Kind
	biquad     *Biquad
	sampleRate float64
	corner     float64
	active     bool
}

// NewCut creates a cut for the given number of channels.
func NewCut(kind Kind, channels int) *Cut {
	return &Cut{
		kind:   kind,
		biquad: NewBiquad(channels),
	}
}

// Prepare sets the sample rate and clears all state. The corner must be set
// again afterwards.
func (c *Cut) Prepare(sampleRate float64) {
	c.sampleRate = sampleRate
	c.corner = 0
	c.active = false
	c.biquad.Reset()
}

// SetCorner selects the corner frequency in Hz. Coefficients are only
// recomputed when the corner actually changes.
func (c *Cut) SetCorner(hz float64) {
	if hz == c.corner {
		return
	}
	c.corner = hz

	wasActive := c.active
	c.active = hz > 0 && c.sampleRate > 0 && hz < c.sampleRate*MaxCornerRatio
	if !c.active {
		return
	}

	switch c.kind {
	case HighCut:
		c.biquad.SetLowpass(c.sampleRate, hz, dsp.DefaultQ)
	default:
		c.biquad.SetHighpass(c.sampleRate, hz, dsp.DefaultQ)
	}

	// Stale history from a bypassed period would click.
	if !wasActive {
		c.biquad.Reset()
	}
}

// Corner returns the requested corner frequency, 0 when off.
func (c *Cut) Corner() float64 {
	return c.corner
}

// Active reports whether the cut currently alters the signal.
func (c *Cut) Active() bool {
	return c.active
}

// Kind returns the response type.
func (c *Cut) Kind() Kind {
	return c.kind
}

// Process filters one channel in place. Inactive cuts do nothing.
func (c *Cut) Process(buffer []float32, channel int) {
	if !c.active || channel >= c.biquad.Channels() {
		return
	}
	c.biquad.Process(buffer, channel)
}

// ProcessSample filters one sample. Inactive cuts return x unchanged.
func (c *Cut) ProcessSample(x float32, channel int) float32 {
	if !c.active || channel >= c.biquad.Channels() {
		return x
	}
	return c.biquad.ProcessSample(x, channel)
}

// MagnitudeDB returns the analytic response at frequency. Inactive cuts are
// flat.
func (c *Cut) MagnitudeDB(frequency float64) float64 {
	if !c.active {
		return 0
	}
	return c.biquad.MagnitudeDB(c.sampleRate, frequency)
}

// Reset clears filter history.
func (c *Cut) Reset() {
	c.biquad.Reset()
}

// Sanitize clears non-finite filter history.
func (c *Cut) Sanitize() bool {
	return c.biquad.Sanitize()
}
