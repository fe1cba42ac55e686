package param

import (
	"math"
)

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// LinearSmoothing ramps to the target over a fixed number of samples
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing uses a one-pole follower
	ExponentialSmoothing
)

// Smoother provides parameter smoothing to prevent zipper noise.
//
// For ExponentialSmoothing the rate is the fraction of the remaining distance
// covered per sample (0..1). For LinearSmoothing it is the ramp length in
// samples.
type Smoother struct {
	smoothingType SmoothingType
	current       float64
	target        float64
	rate          float64
	threshold     float64
	isSmoothing   bool

	// For linear smoothing
	step      float64
	remaining int
}

// NewSmoother creates a new parameter smoother.
func NewSmoother(smoothingType SmoothingType, rate float64) *Smoother {
	return &Smoother{
		smoothingType: smoothingType,
		rate:          rate,
		threshold:     1e-6,
	}
}

// SetTarget sets the target value for smoothing.
func (s *Smoother) SetTarget(target float64) {
	if target == s.target && !s.isSmoothing {
		return
	}

	s.target = target
	s.isSmoothing = s.current != target

	if s.smoothingType == LinearSmoothing {
		if s.rate >= 1 {
			s.remaining = int(math.Round(s.rate))
			s.step = (target - s.current) / float64(s.remaining)
		} else {
			s.current = target
			s.isSmoothing = false
		}
	}
}

// Target returns the value the smoother is heading to.
func (s *Smoother) Target() float64 {
	return s.target
}

// Current returns the last produced value without advancing.
func (s *Smoother) Current() float64 {
	return s.current
}

// Next returns the next smoothed value.
func (s *Smoother) Next() float64 {
	if !s.isSmoothing {
		return s.current
	}

	switch s.smoothingType {
	case ExponentialSmoothing:
		// One-pole filter: y = y + a * (x - y)
		s.current += (s.target - s.current) * s.rate

		if math.Abs(s.current-s.target) < s.threshold {
			s.current = s.target
			s.isSmoothing = false
		}

	case LinearSmoothing:
		s.current += s.step
		s.remaining--

		if s.remaining <= 0 {
			s.current = s.target
			s.isSmoothing = false
		}
	}

	return s.current
}

// IsSmoothing returns true if the smoother is currently smoothing.
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}

// Reset resets the smoother to a specific value.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.step = 0
	s.remaining = 0
	s.isSmoothing = false
}

// SetRate updates the smoothing rate.
func (s *Smoother) SetRate(rate float64) {
	s.rate = rate
}

// SetThreshold sets the threshold for considering smoothing complete.
func (s *Smoother) SetThreshold(threshold float64) {
	s.threshold = threshold
}

// CompensateRate converts a per-sample exponential coefficient tuned at
// referenceRate into the coefficient giving the same time constant at
// sampleRate.
func CompensateRate(coefficient, referenceRate, sampleRate float64) float64 {
	if coefficient <= 0 || coefficient >= 1 || sampleRate <= 0 || referenceRate <= 0 {
		return coefficient
	}
	return 1 - math.Pow(1-coefficient, referenceRate/sampleRate)
}

// TimeToRate returns the exponential coefficient that covers ~63% of a step
// in timeMs.
func TimeToRate(timeMs, sampleRate float64) float64 {
	if timeMs <= 0 || sampleRate <= 0 {
		return 1
	}
	return 1 - math.Exp(-1000/(timeMs*sampleRate))
}
