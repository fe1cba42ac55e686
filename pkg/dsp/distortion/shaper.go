package distortion

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/dsp/utility"
	"github.com/justyntemme/retrocall/pkg/rand"
)

// Profile holds the constants of one shaping character. A zero term is
// skipped.
type Profile struct {
	Curve Curve
	// Drive scales the pre-gain: 1 + Drive*amount.
	Drive float64
	// Ceiling is the hard limit level or the tanh output scale.
	Ceiling float64

	// Asymmetric atan coefficients.
	PosScale float64
	NegScale float64
	NegDrive float64

	// Bite adds Bite*amount*sin(3πy).
	Bite float64
	// Cubic adds Cubic*amount*y³.
	Cubic float64
	// Even adds Even*amount*sin²(y).
	Even float64
	// Attenuation scales the output by 1 - Attenuation*amount.
	Attenuation float64

	// Quantization-like noise of QuantNoise*(amount-NoiseThreshold) above
	// the threshold.
	NoiseThreshold float64
	QuantNoise     float64

	// Aging is the random gain wobble depth at amount 1.
	Aging float64

	// DCBlock runs a DC blocker after the shaper.
	DCBlock bool
}

// Character profiles used by the phone archetypes.
var (
	DigitalClip = Profile{
		Curve:          CurveHardLimit,
		Drive:          2.0,
		Ceiling:        0.8,
		Bite:           0.02,
		NoiseThreshold: 0.6,
		QuantNoise:     0.01,
	}

	SmoothClip = Profile{
		Curve:       CurveTanh,
		Drive:       1.5,
		Ceiling:     0.85,
		Cubic:       0.03,
		Attenuation: 0.1,
	}

	AnalogSaturation = Profile{
		Curve:    CurveAsymmetricAtan,
		Drive:    3.0,
		PosScale: 0.7,
		NegScale: 0.6,
		NegDrive: 1.3,
		Even:     0.05,
		Aging:    0.005,
		DCBlock:  true,
	}
)

// DCCutoff is the corner of the post-shaper DC blocker in Hz.
const DCCutoff = 10.0

// Shaper applies a Profile per sample. The shaped signal is blended with the
// dry input by min(1, 3*amount) so the stage is continuous in amount.
type Shaper struct {
	profile Profile
	rng     *rand.Rand
	dc      *utility.DCBlocker
	// idle marks channels that passed through at amount 0; their DC
	// blocker restarts from zero on the next shaped sample.
	idle []bool
}

// NewShaper creates a shaper for the given channel count. rng feeds the
// noise and aging terms.
func NewShaper(profile Profile, channels int, sampleRate float64, rng *rand.Rand) *Shaper {
	s := &Shaper{
		profile: profile,
		rng:     rng,
		dc:      utility.NewDCBlocker(channels, DCCutoff, sampleRate),
		idle:    make([]bool, channels),
	}
	s.markIdle()
	return s
}

func (s *Shaper) markIdle() {
	for ch := range s.idle {
		s.idle[ch] = true
	}
}

// SetProfile switches the character. DC blocker state is kept.
func (s *Shaper) SetProfile(p Profile) {
	s.profile = p
}

// Profile returns the active profile.
func (s *Shaper) Profile() Profile {
	return s.profile
}

// Prepare retunes the DC blocker for a new sample rate and clears state.
func (s *Shaper) Prepare(sampleRate float64) {
	s.dc.SetCutoff(DCCutoff, sampleRate)
	s.dc.Reset()
	s.markIdle()
}

// Reset clears the DC blocker.
func (s *Shaper) Reset() {
	s.dc.Reset()
	s.markIdle()
}

// Sanitize clears non-finite DC blocker state.
func (s *Shaper) Sanitize() bool {
	return s.dc.Sanitize()
}

// Shape distorts one sample of the given channel. amount <= 0 returns x.
func (s *Shaper) Shape(x float32, amount float32, channel int) float32 {
	if amount <= 0 {
		if channel >= 0 && channel < len(s.idle) {
			s.idle[channel] = true
		}
		return x
	}
	if amount > 1 {
		amount = 1
	}

	p := &s.profile
	a := float64(amount)
	in := float64(x)
	g := in * (1 + p.Drive*a)

	var y float64
	switch p.Curve {
	case CurveHardLimit:
		y = HardClip(g, p.Ceiling)
	case CurveTanh:
		y = SoftClip(g, p.Ceiling)
	case CurveAsymmetricAtan:
		y = AsymmetricAtan(g, p.PosScale, p.NegScale, p.NegDrive)
	default:
		y = g
	}

	if p.Bite != 0 {
		y += p.Bite * a * math.Sin(3*math.Pi*y)
	}
	if p.Cubic != 0 {
		y += p.Cubic * a * y * y * y
	}
	if p.Even != 0 {
		sy := math.Sin(y)
		y += p.Even * a * sy * sy
	}
	if p.QuantNoise != 0 && a > p.NoiseThreshold {
		y += s.rng.Bipolar() * p.QuantNoise * (a - p.NoiseThreshold)
	}
	if p.Aging != 0 {
		y *= 1 + p.Aging*a*s.rng.Bipolar()
	}
	if p.Attenuation != 0 {
		y *= 1 - p.Attenuation*a
	}

	wet := math.Min(1, 3*a)
	out := float32(in + (y-in)*wet)

	if p.DCBlock {
		if channel >= 0 && channel < len(s.idle) && s.idle[channel] {
			s.dc.ResetChannel(channel)
			s.idle[channel] = false
		}
		out = s.dc.Process(out, channel)
	}
	return out
}
