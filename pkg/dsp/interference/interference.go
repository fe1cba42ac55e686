// Package interference generates the external disturbances a handset picks
// up: GSM buzz from a nearby speaker, charger hum, flip-phone static and
// similar. It also produces the archetype's base noise.
package interference

import (
	"math"

	"github.com/justyntemme/retrocall/pkg/dsp"
	"github.com/justyntemme/retrocall/pkg/dsp/envelope"
	"github.com/justyntemme/retrocall/pkg/dsp/oscillator"
	"github.com/justyntemme/retrocall/pkg/rand"
)

// ReferenceRate is the rate the per-sample probabilities and phase steps
// below are expressed at.
const ReferenceRate = 44100.0

// Kind selects an interference pattern.
type Kind int

const (
	Clean Kind = iota
	GSMBuzz
	Clicks
	Bursts
	SpeakerBlips
	ChargingHum
	DataSync
	Underground
	Wind
	FlipStatic

	NumKinds = int(FlipStatic) + 1
)

var kindNames = [NumKinds]string{
	"Clean",
	"Near TV",
	"Alarm Clock",
	"Car Radio",
	"Near Speakers",
	"Charging",
	"Data Sync",
	"Underground",
	"Wind Noise",
	"Flip Static",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return "Unknown"
	}
	return kindNames[k]
}

// Pattern constants.
const (
	GSMFrequency  = 217.0
	GSMPeriod     = 0.0046
	GSMDuty       = 0.3
	GSMAmplitude  = 0.02
	ClickChance   = 0.0015
	ClickAmp      = 0.03
	BurstRate     = 2.0
	BurstDuty     = 0.25
	BurstAmp      = 0.015
	BlipChance    = 0.0008
	BlipFrequency = 2 * GSMFrequency
	BlipDecay     = 0.01
	BlipAmp       = 0.015
	HumStep       = 0.005
	HumAmp        = 0.003
	SyncChance    = 0.0005
	SyncAmp       = 0.02
	FadeChance    = 0.005
	FadeMin       = 0.7
	FadeMax       = 0.9
	WindStep      = 0.1
	WindJitter    = 0.05
	WindAmp       = 0.02
	StaticChance  = 0.0002
	StaticAmp     = 0.05
	HissStep      = 0.08
)

// NoiseKind selects the base noise texture.
type NoiseKind int

const (
	White NoiseKind = iota
	// Hiss is white noise modulated by a fast sine, the analog texture of
	// old flip phones.
	Hiss
)

// BaseNoise is the always-on noise of a handset at Noise Level 1.
type BaseNoise struct {
	Kind NoiseKind
	Amp  float64
}

// Overlay renders one pattern plus base noise. Phones are mono so the
// overlay runs once per frame and its result is applied to every channel:
//
//	out = in*gain + add
type Overlay struct {
	rng   *rand.Rand
	scale float64
	dt    float64
	kind  Kind
	noise BaseNoise

	gsmTimer  float64
	gsmActive bool
	gsm       *oscillator.Oscillator
	bursts    *oscillator.Oscillator
	blipOsc   *oscillator.Oscillator
	blip      *envelope.Decay
	hum       oscillator.Phase
	wind      oscillator.Phase
	hiss      oscillator.Phase
}

// New creates a clean overlay.
func New(sampleRate float64, rng *rand.Rand) *Overlay {
	o := &Overlay{
		rng:     rng,
		gsm:     oscillator.New(sampleRate),
		bursts:  oscillator.New(sampleRate),
		blipOsc: oscillator.New(sampleRate),
		blip:    envelope.NewDecay(sampleRate, BlipDecay),
	}
	o.gsm.SetFrequency(GSMFrequency)
	o.bursts.SetFrequency(BurstRate)
	o.blipOsc.SetFrequency(BlipFrequency)
	o.SetSampleRate(sampleRate)
	return o
}

// SetSampleRate rescales every rate dependent constant.
func (o *Overlay) SetSampleRate(sampleRate float64) {
	o.scale = ReferenceRate / sampleRate
	o.dt = 1 / sampleRate
	o.gsm.SetSampleRate(sampleRate)
	o.bursts.SetSampleRate(sampleRate)
	o.blipOsc.SetSampleRate(sampleRate)
	o.blip.SetSampleRate(sampleRate)
}

// SetPattern selects the pattern and base noise. Unknown kinds select Clean.
func (o *Overlay) SetPattern(kind Kind, noise BaseNoise) {
	if kind < 0 || int(kind) >= NumKinds {
		kind = Clean
	}
	o.kind = kind
	o.noise = noise
}

// Kind returns the active pattern.
func (o *Overlay) Kind() Kind {
	return o.kind
}

// Reset restarts every pattern.
func (o *Overlay) Reset() {
	o.gsmTimer = 0
	o.gsmActive = false
	o.gsm.Reset()
	o.bursts.Reset()
	o.blipOsc.Reset()
	o.blip.Reset()
	o.hum.Reset()
	o.wind.Reset()
	o.hiss.Reset()
}

// Sanitize restores phases that went non-finite.
func (o *Overlay) Sanitize() bool {
	bad := o.hum.Sanitize()
	bad = o.wind.Sanitize() || bad
	bad = o.hiss.Sanitize() || bad
	if !dsp.IsFinite(o.gsmTimer) {
		o.gsmTimer = 0
		bad = true
	}
	return bad
}

func (o *Overlay) chance(p float64) bool {
	return o.rng.Chance(p * o.scale)
}

// Next advances one frame. level scales the pattern and noise scales the
// base noise; a zero level draws no randomness for that part.
func (o *Overlay) Next(level, noise float32) (add, gain float32) {
	gain = 1
	if level > 0 && o.kind != Clean {
		add, gain = o.pattern(level)
	}
	if noise > 0 && o.noise.Amp > 0 {
		add += o.base(noise)
	}
	return add, gain
}

func (o *Overlay) pattern(level float32) (add, gain float32) {
	gain = 1
	switch o.kind {
	case GSMBuzz:
		o.gsmTimer += o.dt
		if o.gsmTimer >= GSMPeriod {
			o.gsmTimer = 0
			o.gsmActive = o.rng.Chance(GSMDuty)
		}
		if o.gsmActive {
			add = o.gsm.Sine() * GSMAmplitude * level
		}

	case Clicks:
		if o.chance(ClickChance) {
			add = o.rng.Bipolar32() * ClickAmp * level
		}

	case Bursts:
		if o.bursts.Pulse(BurstDuty) > 0 {
			add = o.rng.Bipolar32() * BurstAmp * level
		}

	case SpeakerBlips:
		if !o.blip.IsActive() && o.chance(BlipChance) {
			o.blip.Trigger(1)
			o.blipOsc.Reset()
		}
		if o.blip.IsActive() {
			add = float32(o.blip.Next()) * o.blipOsc.Sine() * BlipAmp * level
		}

	case ChargingHum:
		add = float32(math.Sin(o.hum.Advance(HumStep*o.scale))) * HumAmp * level

	case DataSync:
		if o.chance(SyncChance) {
			add = o.rng.Bipolar32() * SyncAmp * level
		}

	case Underground:
		if o.chance(FadeChance) {
			fade := float32(o.rng.Uniform(FadeMin, FadeMax))
			gain = 1 - level*(1-fade)
		}

	case Wind:
		step := (WindStep + o.rng.Float64()*WindJitter) * o.scale
		add = float32(math.Sin(o.wind.Advance(step))) * o.rng.Bipolar32() * WindAmp * level

	case FlipStatic:
		if o.chance(StaticChance) {
			add = o.rng.Bipolar32() * StaticAmp * level
		}
	}
	return add, gain
}

func (o *Overlay) base(noise float32) float32 {
	amp := float32(o.noise.Amp) * noise
	switch o.noise.Kind {
	case Hiss:
		mod := float32(math.Sin(o.hiss.Advance(HissStep * o.scale)))
		return mod * o.rng.Bipolar32() * amp
	default:
		return o.rng.Bipolar32() * amp
	}
}
