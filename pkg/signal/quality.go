package signal

import (
	"github.com/justyntemme/retrocall/pkg/framework/param"
)

// Quality forces the effective strength to a fixed level, or leaves it to
// the engine with Auto.
type Quality int

const (
	Perfect Quality = iota
	Good
	Fair
	Poor
	BreakingUp
	Auto

	// NumQualities is the number of quality modes.
	NumQualities = int(Auto) + 1
)

var qualityNames = [NumQualities]string{"Perfect", "Good", "Fair", "Poor", "Breaking Up", "Auto"}

var qualityLevels = [NumQualities]float64{1.0, 0.85, 0.7, 0.55, 0.4, 0}

// QualityNames returns the display names in Quality order.
func QualityNames() []string {
	return qualityNames[:]
}

func (q Quality) String() string {
	if q < 0 || int(q) >= NumQualities {
		return "Unknown"
	}
	return qualityNames[q]
}

// Level returns the forced strength of q. ok is false for Auto and
// unknown values.
func (q Quality) Level() (level float64, ok bool) {
	if q < 0 || q >= Auto {
		return 0, false
	}
	return qualityLevels[q], true
}

// OverrideTime is the glide time between quality modes in milliseconds.
const OverrideTime = 50.0

// Override blends the engine output with a forced quality level. Changes of
// mode glide over OverrideTime; a steady forced mode reports its level
// exactly and a steady Auto reports the engine value unmodified.
type Override struct {
	level *param.Smoother
	mix   *param.Smoother
}

// NewOverride creates an override for sampleRate starting in mode q.
func NewOverride(sampleRate float64, q Quality) *Override {
	rate := param.TimeToRate(OverrideTime, sampleRate)
	o := &Override{
		level: param.NewSmoother(param.ExponentialSmoothing, rate),
		mix:   param.NewSmoother(param.ExponentialSmoothing, rate),
	}
	o.Reset(q)
	return o
}

// Reset jumps to mode q without gliding.
func (o *Override) Reset(q Quality) {
	level, forced := q.Level()
	o.level.Reset(level)
	if forced {
		o.mix.Reset(1)
	} else {
		o.mix.Reset(0)
	}
}

// SetSampleRate retunes the glide.
func (o *Override) SetSampleRate(sampleRate float64) {
	rate := param.TimeToRate(OverrideTime, sampleRate)
	o.level.SetRate(rate)
	o.mix.SetRate(rate)
}

// Apply returns the effective strength and dropout flag for one sample.
// Forced modes never report a dropout.
func (o *Override) Apply(q Quality, strength float64, dropout bool) (float64, bool) {
	if level, forced := q.Level(); forced {
		if o.mix.Current() == 0 {
			// leaving Auto: glide from where the engine is
			o.level.Reset(strength)
		}
		o.level.SetTarget(level)
		o.mix.SetTarget(1)
	} else {
		o.mix.SetTarget(0)
	}

	level := o.level.Next()
	mix := o.mix.Next()
	switch mix {
	case 0:
		return strength, dropout
	case 1:
		return level, false
	}
	return strength + (level-strength)*mix, dropout && mix < 0.5
}

// Forced reports whether the override currently ignores the engine.
func (o *Override) Forced() bool {
	return o.mix.Current() == 1
}
