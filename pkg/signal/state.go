package signal

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/rand"
)

// Band is the stable strength range of one phone archetype. Re-rolls draw
// the target from it when no bias is active.
type Band struct {
	Range
	Initial float64
}

// MinBars and MaxBars bound the bar display.
const (
	MinBars = 1
	MaxBars = 5
)

// Bars quantizes a strength into 1..5 bars.
func Bars(strength float64) int {
	if !(strength > 0) {
		return MinBars
	}
	b := int(math.Floor(strength*4)) + 1
	return max(MinBars, min(b, MaxBars))
}

// State is the whole engine state. The zero value is not meaningful; use
// NewState.
type State struct {
	// Strength is the smoothed signal strength in [0, 1].
	Strength float64
	// Target is the value Strength follows.
	Target float64

	// Level is the smoothed input magnitude and Voice the activity derived
	// from it, in [0, 1].
	Level float64
	Voice float64

	// Silence is the time in seconds the input has stayed under the
	// silence epsilon.
	Silence float64

	Dropout         bool
	DropoutElapsed  float64
	DropoutDuration float64

	// Reroll counts down to the next target re-roll, in seconds.
	Reroll float64

	SilenceBias bool
	VoiceBias   bool

	Bars int

	// Dropouts counts dropout onsets since NewState.
	Dropouts uint64
}

// NewState starts the engine at the band's initial strength.
func NewState(t *Tuning, band Band, rng *rand.Rand) State {
	s := State{
		Strength: band.Initial,
		Target:   band.Initial,
		Reroll:   rng.Uniform(t.RerollMin, t.RerollMax),
	}
	s.Bars = Bars(s.Strength)
	return s
}

// bias returns the range re-rolls and recoveries draw from.
func (s *State) bias(t *Tuning, fallback Range) Range {
	switch {
	case s.SilenceBias:
		return t.SilenceBand
	case s.VoiceBias:
		return t.VoiceBand
	default:
		return fallback
	}
}

// Step advances the engine by one sample of input.
func Step(s *State, t *Tuning, band Band, input float32, rng *rand.Rand) {
	dt := t.DT

	// voice activity
	mag := math.Abs(float64(input))
	if !(mag < math.MaxFloat32) {
		mag = 0
	}
	s.Level += (mag - s.Level) * t.voiceCoef
	s.Voice = math.Min(1, s.Level/t.VoiceFullScale)

	switch {
	case s.Level < t.SilenceEpsilon:
		s.Silence += dt
	case s.Level > t.VoiceThreshold:
		s.Silence = 0
		s.SilenceBias = false
	}

	// biases
	if s.Silence > t.SilenceThreshold && !s.SilenceBias {
		s.SilenceBias = true
		s.VoiceBias = false
		if !s.Dropout {
			s.Target = rng.Uniform(t.SilenceBand.Low, t.SilenceBand.High)
		}
	}
	if s.Voice > t.VoiceHighActivity && !s.VoiceBias && !s.SilenceBias {
		s.VoiceBias = true
		if !s.Dropout {
			s.Target = math.Max(s.Target, rng.Uniform(t.VoiceBand.Low, t.VoiceBand.High))
		}
	} else if s.VoiceBias && s.Voice < t.VoiceRelease {
		s.VoiceBias = false
	}

	// periodic re-roll
	s.Reroll -= dt
	if s.Reroll <= 0 {
		s.Reroll = rng.Uniform(t.RerollMin, t.RerollMax)
		if !s.Dropout {
			r := s.bias(t, band.Range)
			s.Target = rng.Uniform(r.Low, r.High)
		}
	}

	// dropouts
	if s.Dropout {
		s.DropoutElapsed += dt
		s.Target = t.DropoutFloor
		if s.DropoutElapsed >= s.DropoutDuration {
			s.Dropout = false
			r := s.bias(t, t.RecoveryBand)
			s.Target = rng.Uniform(r.Low, r.High)
		}
	} else if rng.Chance((1 - s.Strength) * t.DropoutRate * dt) {
		s.Dropout = true
		s.Dropouts++
		s.DropoutElapsed = 0
		s.DropoutDuration = rng.Uniform(t.DropoutMin, t.DropoutMax)
		s.Target = t.DropoutFloor
	}

	if s.SilenceBias && !s.Dropout {
		s.Target = math.Min(s.Target, t.SilenceBand.High)
	}

	s.Strength += (s.Target - s.Strength) * t.strengthCoef
	s.Strength = clamp01(s.Strength)
	s.Bars = Bars(s.Strength)
}

// Sanitize repairs non-finite fields, returning true if it changed any.
func (s *State) Sanitize(band Band) bool {
	fixed := false
	fix := func(v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			fixed = true
		}
	}
	fix(&s.Strength, band.Initial)
	fix(&s.Target, band.Initial)
	fix(&s.Level, 0)
	fix(&s.Voice, 0)
	fix(&s.Silence, 0)
	fix(&s.DropoutElapsed, 0)
	fix(&s.DropoutDuration, 0)
	fix(&s.Reroll, 0)
	if fixed {
		s.Strength = clamp01(s.Strength)
		s.Bars = Bars(s.Strength)
	}
	return fixed
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
