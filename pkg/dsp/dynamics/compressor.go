// Package dynamics provides the compressors of the phone chain.
package dynamics

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/dsp/envelope"
)

// KneeType defines the compressor knee characteristic
type KneeType int

const (
	// KneeHard provides hard knee compression
	KneeHard KneeType = iota
	// KneeSoft provides soft knee compression
	KneeSoft
)

// Compressor implements a feed-forward compressor driven by an envelope
// follower.
type Compressor struct {
	sampleRate float64

	threshold  float64 // dB
	ratio      float64
	attack     float64 // seconds
	release    float64 // seconds
	kneeWidth  float64 // dB
	makeupGain float64 // dB
	kneeType   KneeType

	detector *envelope.Detector

	lastGainReduction float64
}

// NewCompressor creates a compressor at -20 dB, 4:1, 5 ms / 50 ms with a
// 2 dB soft knee.
func NewCompressor(sampleRate float64) *Compressor {
	c := &Compressor{
		sampleRate: sampleRate,
		threshold:  -20.0,
		ratio:      4.0,
		attack:     0.005,
		release:    0.050,
		kneeWidth:  2.0,
		kneeType:   KneeSoft,
		detector:   envelope.NewDetector(sampleRate, envelope.ModePeak),
	}

	c.detector.SetType(envelope.TypeLogarithmic)
	c.detector.SetTimeConstants(c.attack, c.release)

	return c
}

// SetThreshold sets the compression threshold in dB
func (c *Compressor) SetThreshold(dB float64) {
	c.threshold = dB
}

// SetRatio sets the compression ratio (1.0 = no compression)
func (c *Compressor) SetRatio(ratio float64) {
	// NaN falls through to 1
	if !(ratio >= 1.0) {
		ratio = 1.0
	}
	c.ratio = ratio
}

// SetAttack sets the attack time in seconds
func (c *Compressor) SetAttack(seconds float64) {
	c.attack = math.Max(0.0001, seconds)
	c.detector.SetAttack(c.attack)
}

// SetRelease sets the release time in seconds
func (c *Compressor) SetRelease(seconds float64) {
	c.release = math.Max(0.001, seconds)
	c.detector.SetRelease(c.release)
}

// SetKnee sets the knee type and width
func (c *Compressor) SetKnee(kneeType KneeType, widthDB float64) {
	c.kneeType = kneeType
	c.kneeWidth = math.Max(0.0, widthDB)
}

// SetMakeupGain sets the makeup gain in dB
func (c *Compressor) SetMakeupGain(dB float64) {
	c.makeupGain = dB
}

// Threshold returns the threshold in dB.
func (c *Compressor) Threshold() float64 { return c.threshold }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// GetGainReduction returns the current gain reduction in dB (for metering)
func (c *Compressor) GetGainReduction() float64 {
	return c.lastGainReduction
}

// computeGain calculates the gain reduction for a given input level
func (c *Compressor) computeGain(inputDB float64) float64 {
	lower := c.threshold - c.kneeWidth/2
	upper := c.threshold + c.kneeWidth/2
	slope := 1.0 - 1.0/c.ratio

	if inputDB <= lower {
		return 0.0
	}
	if inputDB >= upper || c.kneeType == KneeHard || c.kneeWidth == 0 {
		if inputDB <= c.threshold {
			return 0.0
		}
		return (inputDB - c.threshold) * slope
	}

	// quadratic knee meets the straight line at the upper edge
	x := inputDB - lower
	return slope * x * x / (2 * c.kneeWidth)
}

// Process processes a single sample
func (c *Compressor) Process(input float32) float32 {
	env := c.detector.Detect(input)

	inputDB := -96.0
	if env > 0 {
		inputDB = 20.0 * math.Log10(float64(env))
	}

	gr := c.computeGain(inputDB)
	c.lastGainReduction = gr

	gain := math.Pow(10.0, (c.makeupGain-gr)/20.0)
	return input * float32(gain)
}

// ProcessBuffer processes a buffer of samples
func (c *Compressor) ProcessBuffer(input, output []float32) {
	for i := range input {
		output[i] = c.Process(input[i])
	}
}

// Reset resets the compressor state
func (c *Compressor) Reset() {
	c.detector.Reset()
	c.lastGainReduction = 0.0
}

// Sanitize resets non-finite detector state.
func (c *Compressor) Sanitize() bool {
	if c.detector.Sanitize() {
		c.lastGainReduction = 0
		return true
	}
	return false
}
