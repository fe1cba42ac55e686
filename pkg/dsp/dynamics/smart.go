package dynamics

// Smart compression scales with simulated signal quality. Below
// SmartQualityThreshold the ratio rises from SmartMinRatio to
// SmartMaxRatio and the threshold falls by up to SmartThresholdRange dB as
// strength drops to zero.
const (
	SmartQualityThreshold = 0.8
	SmartMinRatio         = 1.5
	SmartMaxRatio         = 3.5
	SmartBaseThreshold    = -12.0
	SmartThresholdRange   = 12.0
)

// SmartCompressor is a Compressor retuned from a signal-strength value.
// At or above SmartQualityThreshold it passes samples through untouched.
type SmartCompressor struct {
	comp     *Compressor
	strength float64
	engaged  bool
}

// NewSmartCompressor creates a disengaged smart compressor.
func NewSmartCompressor(sampleRate float64) *SmartCompressor {
	c := NewCompressor(sampleRate)
	c.SetAttack(0.010)
	c.SetRelease(0.120)
	return &SmartCompressor{comp: c, strength: 1}
}

// SmartSettings returns the ratio and threshold (dB) for a strength. ok is
// false when the strength is good enough to skip compression.
func SmartSettings(strength float64) (ratio, thresholdDB float64, ok bool) {
	if !(strength < SmartQualityThreshold) {
		return 1, 0, false
	}
	if strength < 0 {
		strength = 0
	}
	depth := (SmartQualityThreshold - strength) / SmartQualityThreshold
	ratio = SmartMinRatio + (SmartMaxRatio-SmartMinRatio)*depth
	thresholdDB = SmartBaseThreshold - SmartThresholdRange*depth
	return ratio, thresholdDB, true
}

// SetStrength retunes the compressor. Unchanged values are ignored.
func (s *SmartCompressor) SetStrength(strength float64) {
	if strength == s.strength {
		return
	}
	s.strength = strength
	ratio, threshold, ok := SmartSettings(strength)
	s.engaged = ok
	if ok {
		s.comp.SetRatio(ratio)
		s.comp.SetThreshold(threshold)
	}
}

// Engaged reports whether the last strength enabled compression.
func (s *SmartCompressor) Engaged() bool {
	return s.engaged
}

// Compressor exposes the underlying compressor.
func (s *SmartCompressor) Compressor() *Compressor {
	return s.comp
}

// Process compresses one sample when engaged. The detector keeps
// following the input while disengaged so re-engaging starts from the
// current level.
func (s *SmartCompressor) Process(x float32) float32 {
	if !s.engaged {
		s.comp.detector.Detect(x)
		return x
	}
	return s.comp.Process(x)
}

// Reset clears the detector and returns to full strength.
func (s *SmartCompressor) Reset() {
	s.comp.Reset()
	s.strength = 1
	s.engaged = false
}

// Sanitize resets non-finite detector state.
func (s *SmartCompressor) Sanitize() bool {
	return s.comp.Sanitize()
}
