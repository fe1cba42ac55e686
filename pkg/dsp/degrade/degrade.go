// Package degrade turns a simulated signal strength into audible damage:
// probabilistic mutes, crackle, a noise floor and smart compression.
package degrade

import (
	"github.com/justyntemme/retrocall/pkg/dsp/dynamics"
	"github.com/justyntemme/retrocall/pkg/framework/param"
	"github.com/justyntemme/retrocall/pkg/rand"
)

// Stage constants. Probabilities are per sample at ReferenceRate.
const (
	ReferenceRate = 44100.0

	// MuteFloor is the gain a mute pulls toward.
	MuteFloor = 0.02
	// MuteStrength is the strength under which short mutes can start.
	MuteStrength = 0.5
	// MuteChance scales (MuteStrength-s) into a per-sample probability.
	MuteChance = 0.0004
	// MuteMin and MuteMax bound a short mute in seconds.
	MuteMin = 0.010
	MuteMax = 0.060
	// MuteGlide is the mute gain glide time in milliseconds.
	MuteGlide = 5.0

	// CrackleStrength is the strength under which crackle can occur.
	CrackleStrength = 0.5
	// CrackleChance scales (1-s) into a per-sample probability.
	CrackleChance = 0.002
	// CrackleAmplitude bounds a crackle sample.
	CrackleAmplitude = 0.05

	// NoiseStrength is the strength under which the noise floor and smart
	// compression engage.
	NoiseStrength = dynamics.SmartQualityThreshold
	// NoiseScale scales (NoiseStrength-s) into the noise floor amplitude.
	NoiseScale = 0.01
)

// Stage is the signal-quality effects stage. Begin is called once per
// sample frame with the engine output, then Process once per channel.
type Stage struct {
	rng   *rand.Rand
	scale float64

	mute     *param.Smoother
	muteLeft float64 // seconds of short mute remaining
	dt       float64
	gain     float32
	crackle  float64 // per-sample crackle probability for this frame
	noise    float32 // noise floor amplitude for this frame
	strength float64
	comps    []*dynamics.SmartCompressor
}

// New creates a stage for channels at sampleRate drawing from rng.
func New(channels int, sampleRate float64, rng *rand.Rand) *Stage {
	s := &Stage{
		rng:   rng,
		mute:  param.NewSmoother(param.ExponentialSmoothing, 1),
		comps: make([]*dynamics.SmartCompressor, channels),
	}
	for i := range s.comps {
		s.comps[i] = dynamics.NewSmartCompressor(sampleRate)
	}
	s.SetSampleRate(sampleRate)
	s.Reset()
	return s
}

// SetSampleRate retunes the probabilities and the mute glide.
func (s *Stage) SetSampleRate(sampleRate float64) {
	s.scale = ReferenceRate / sampleRate
	s.dt = 1 / sampleRate
	s.mute.SetRate(param.TimeToRate(MuteGlide, sampleRate))
}

// Reset returns to full strength with no mute.
func (s *Stage) Reset() {
	s.mute.Reset(1)
	s.muteLeft = 0
	s.gain = 1
	s.crackle = 0
	s.noise = 0
	s.strength = 1
	for _, c := range s.comps {
		c.Reset()
	}
}

// Sanitize resets compressors with non-finite state.
func (s *Stage) Sanitize() bool {
	fixed := false
	for _, c := range s.comps {
		if c.Sanitize() {
			fixed = true
		}
	}
	return fixed
}

// Gain returns the current mute gain.
func (s *Stage) Gain() float32 {
	return s.gain
}

// Muted reports whether a short mute is running.
func (s *Stage) Muted() bool {
	return s.muteLeft > 0
}

// Begin advances the per-frame state for an effective strength and
// dropout flag.
func (s *Stage) Begin(strength float64, dropout bool) {
	if strength < 0 {
		strength = 0
	} else if strength > 1 {
		strength = 1
	}

	if s.muteLeft > 0 {
		s.muteLeft -= s.dt
	} else if strength < MuteStrength && s.rng.Chance((MuteStrength-strength)*MuteChance*s.scale) {
		s.muteLeft = s.rng.Uniform(MuteMin, MuteMax)
	}

	if dropout || s.muteLeft > 0 {
		s.mute.SetTarget(MuteFloor)
	} else {
		s.mute.SetTarget(1)
	}
	s.gain = float32(s.mute.Next())

	s.crackle = 0
	if strength < CrackleStrength || dropout {
		s.crackle = (1 - strength) * CrackleChance * s.scale
	}

	s.noise = 0
	if strength < NoiseStrength {
		s.noise = float32(NoiseScale * (NoiseStrength - strength))
	}

	if strength != s.strength {
		s.strength = strength
		for _, c := range s.comps {
			c.SetStrength(strength)
		}
	}
}

// Process degrades one sample of channel ch.
func (s *Stage) Process(x float32, ch int) float32 {
	x = s.comps[ch].Process(x)

	if s.noise > 0 {
		x += s.rng.Bipolar32() * s.noise
	}
	if s.gain != 1 {
		x *= s.gain
	}
	// crackle rides on top of a mute
	if s.crackle > 0 && s.rng.Chance(s.crackle) {
		x += s.rng.Bipolar32() * CrackleAmplitude
	}
	return x
}
