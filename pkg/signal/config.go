// Package signal simulates the cellular link of a phone call: a voice
// activity detector, a smoothed signal-strength follower with random
// re-rolls and biases, and a dropout state machine. Everything runs through
// one pure per-sample Step over a State value.
package signal

import (
	"errors"
	"fmt"

	"github.com/justyntemme/retrocall/pkg/framework/param"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid signal config")

// Range is a closed interval.
type Range struct {
	Low  float64
	High float64
}

// Clamp limits x to the range.
func (r Range) Clamp(x float64) float64 {
	if x < r.Low {
		return r.Low
	}
	if x > r.High {
		return r.High
	}
	return x
}

// Contains reports whether x lies in the range.
func (r Range) Contains(x float64) bool {
	return x >= r.Low && x <= r.High
}

func (r Range) valid() bool {
	return r.Low >= 0 && r.High <= 1 && r.Low <= r.High
}

// Config holds the tuning constants of the engine. The per-sample
// coefficients are tuned at ReferenceRate and compensated for other rates.
type Config struct {
	// VoiceSmoothing is the per-sample follower coefficient of the input
	// magnitude.
	VoiceSmoothing float64
	// VoiceFullScale is the smoothed magnitude reported as activity 1.
	VoiceFullScale float64
	// SilenceEpsilon is the level under which the silence timer runs.
	SilenceEpsilon float64
	// VoiceThreshold is the level above which the silence timer resets.
	VoiceThreshold float64
	// SilenceThreshold is the silence time in seconds before the target
	// relaxes into SilenceBand.
	SilenceThreshold float64
	SilenceBand      Range
	// VoiceHighActivity raises the target into VoiceBand.
	VoiceHighActivity float64
	// VoiceRelease drops the voice bias once activity falls under it.
	VoiceRelease float64
	VoiceBand    Range

	// RerollMin and RerollMax bound the re-roll period in seconds.
	RerollMin float64
	RerollMax float64

	// StrengthSmoothing is the per-sample follower coefficient of the
	// strength toward its target.
	StrengthSmoothing float64
	ReferenceRate     float64

	// DropoutRate is the dropout rate per second at strength 0.
	DropoutRate  float64
	DropoutMin   float64
	DropoutMax   float64
	DropoutFloor float64
	RecoveryBand Range
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		VoiceSmoothing:    0.002,
		VoiceFullScale:    0.2,
		SilenceEpsilon:    0.001,
		VoiceThreshold:    0.01,
		SilenceThreshold:  2.0,
		SilenceBand:       Range{0.25, 0.45},
		VoiceHighActivity: 0.5,
		VoiceRelease:      0.25,
		VoiceBand:         Range{0.75, 1.0},
		RerollMin:         5.0,
		RerollMax:         10.0,
		StrengthSmoothing: 0.005,
		ReferenceRate:     44100,
		DropoutRate:       0.1,
		DropoutMin:        0.5,
		DropoutMax:        2.5,
		DropoutFloor:      0.02,
		RecoveryBand:      Range{0.7, 0.95},
	}
}

// Validate checks ranges and orderings.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.VoiceSmoothing > 0 && c.VoiceSmoothing <= 1, "voice smoothing %g not in (0, 1]", c.VoiceSmoothing)
	check(c.StrengthSmoothing > 0 && c.StrengthSmoothing <= 1, "strength smoothing %g not in (0, 1]", c.StrengthSmoothing)
	check(c.VoiceFullScale > 0, "voice full scale %g must be positive", c.VoiceFullScale)
	check(c.SilenceEpsilon >= 0 && c.SilenceEpsilon <= c.VoiceThreshold,
		"silence epsilon %g must be in [0, voice threshold %g]", c.SilenceEpsilon, c.VoiceThreshold)
	check(c.SilenceThreshold > 0, "silence threshold %g must be positive", c.SilenceThreshold)
	check(c.VoiceRelease <= c.VoiceHighActivity, "voice release %g above high activity %g", c.VoiceRelease, c.VoiceHighActivity)
	check(c.RerollMin > 0 && c.RerollMin <= c.RerollMax, "re-roll period [%g, %g] invalid", c.RerollMin, c.RerollMax)
	check(c.ReferenceRate > 0, "reference rate %g must be positive", c.ReferenceRate)
	check(c.DropoutRate >= 0, "dropout rate %g is negative", c.DropoutRate)
	check(c.DropoutMin > 0 && c.DropoutMin <= c.DropoutMax, "dropout duration [%g, %g] invalid", c.DropoutMin, c.DropoutMax)
	check(c.DropoutFloor >= 0 && c.DropoutFloor <= 1, "dropout floor %g not in [0, 1]", c.DropoutFloor)
	for _, b := range []struct {
		name string
		r    Range
	}{
		{"silence", c.SilenceBand},
		{"voice", c.VoiceBand},
		{"recovery", c.RecoveryBand},
	} {
		check(b.r.valid(), "%s band [%g, %g] invalid", b.name, b.r.Low, b.r.High)
	}

	return errors.Join(errs...)
}

// Tuning is a Config resolved for one sample rate.
type Tuning struct {
	Config

	// DT is the sample period in seconds.
	DT float64

	voiceCoef    float64
	strengthCoef float64
}

// Tune resolves c for sampleRate.
func (c Config) Tune(sampleRate float64) Tuning {
	return Tuning{
		Config:       c,
		DT:           1 / sampleRate,
		voiceCoef:    param.CompensateRate(c.VoiceSmoothing, c.ReferenceRate, sampleRate),
		strengthCoef: param.CompensateRate(c.StrengthSmoothing, c.ReferenceRate, sampleRate),
	}
}
