// Package envelope provides level detectors and one-shot decays for the
// dynamics and ambience stages.
package envelope

import (
	"math"
)

// DetectorMode defines the envelope detection mode
type DetectorMode int

const (
	// ModePeak follows the absolute sample value
	ModePeak DetectorMode = iota
	// ModeRMS follows a sliding-window RMS
	ModeRMS
)

// DetectorType defines the envelope detector response type
type DetectorType int

const (
	// TypeLinear uses 1-exp(-1/(t*sr)) coefficients
	TypeLinear DetectorType = iota
	// TypeLogarithmic reaches ~90% of a step within the set time
	TypeLogarithmic
)

// MaxRMSWindow bounds the RMS window so it can be allocated once.
const MaxRMSWindow = 0.050

// Detector is an attack/release envelope follower. It allocates only in
// NewDetector.
type Detector struct {
	sampleRate float64
	mode       DetectorMode
	detType    DetectorType

	attack  float64
	release float64

	attackCoef  float64
	releaseCoef float64

	envelope float64

	rmsWindow    []float64
	rmsIndex     int
	rmsSum       float64
	rmsWindowLen int
}

// NewDetector creates a new envelope detector with a 1 ms attack, 100 ms
// release and 3 ms RMS window.
func NewDetector(sampleRate float64, mode DetectorMode) *Detector {
	d := &Detector{
		sampleRate: sampleRate,
		mode:       mode,
		detType:    TypeLinear,
		attack:     0.001,
		release:    0.100,
		rmsWindow:  make([]float64, max(1, int(sampleRate*MaxRMSWindow))),
	}
	d.SetRMSWindow(3)
	d.updateCoefficients()
	return d
}

// SetMode sets the detection mode
func (d *Detector) SetMode(mode DetectorMode) {
	d.mode = mode
}

// SetType sets the detector response type
func (d *Detector) SetType(detType DetectorType) {
	d.detType = detType
	d.updateCoefficients()
}

// SetAttack sets the attack time in seconds
func (d *Detector) SetAttack(seconds float64) {
	d.attack = math.Max(0.0001, seconds)
	d.updateCoefficients()
}

// SetRelease sets the release time in seconds
func (d *Detector) SetRelease(seconds float64) {
	d.release = math.Max(0.0001, seconds)
	d.updateCoefficients()
}

// SetTimeConstants sets attack and release times together
func (d *Detector) SetTimeConstants(attack, release float64) {
	d.attack = math.Max(0.0001, attack)
	d.release = math.Max(0.0001, release)
	d.updateCoefficients()
}

// SetRMSWindow sets the RMS window length in milliseconds, capped at
// MaxRMSWindow.
func (d *Detector) SetRMSWindow(ms float64) {
	n := int(d.sampleRate * ms / 1000.0)
	n = max(1, min(n, len(d.rmsWindow)))
	if n != d.rmsWindowLen {
		d.rmsWindowLen = n
		d.clearWindow()
	}
}

func (d *Detector) updateCoefficients() {
	k := 1.0
	if d.detType == TypeLogarithmic {
		k = 2.2
	}
	d.attackCoef = 1.0 - math.Exp(-k/(d.attack*d.sampleRate))
	d.releaseCoef = 1.0 - math.Exp(-k/(d.release*d.sampleRate))
}

// Detect processes a single sample and returns the envelope value
func (d *Detector) Detect(input float32) float32 {
	var level float64

	switch d.mode {
	case ModeRMS:
		sq := float64(input) * float64(input)
		d.rmsSum += sq - d.rmsWindow[d.rmsIndex]
		d.rmsWindow[d.rmsIndex] = sq
		d.rmsIndex++
		if d.rmsIndex >= d.rmsWindowLen {
			d.rmsIndex = 0
		}
		// running sums can drift slightly negative
		level = math.Sqrt(math.Max(0, d.rmsSum/float64(d.rmsWindowLen)))
	default:
		level = math.Abs(float64(input))
	}

	if level > d.envelope {
		d.envelope += (level - d.envelope) * d.attackCoef
	} else {
		d.envelope += (level - d.envelope) * d.releaseCoef
	}

	return float32(d.envelope)
}

// Process fills output with the envelope of input.
func (d *Detector) Process(input, output []float32) {
	for i := range input {
		output[i] = d.Detect(input[i])
	}
}

// GetEnvelope returns the current envelope value
func (d *Detector) GetEnvelope() float32 {
	return float32(d.envelope)
}

// GetEnvelopeDB returns the current envelope value in decibels
func (d *Detector) GetEnvelopeDB() float32 {
	if d.envelope <= 0 {
		return -96.0
	}
	return float32(20.0 * math.Log10(d.envelope))
}

// Reset resets the detector state
func (d *Detector) Reset() {
	d.envelope = 0
	d.clearWindow()
}

// Sanitize resets the detector if any state is non-finite.
func (d *Detector) Sanitize() bool {
	if math.IsNaN(d.envelope) || math.IsInf(d.envelope, 0) ||
		math.IsNaN(d.rmsSum) || math.IsInf(d.rmsSum, 0) {
		d.Reset()
		return true
	}
	return false
}

func (d *Detector) clearWindow() {
	clear(d.rmsWindow)
	d.rmsSum = 0
	d.rmsIndex = 0
}
