// Package ambience synthesizes the background bed of the caller's
// surroundings: a few slowly breathing tones, filtered noise and random
// decaying events such as horns or announcements.
package ambience

import (
	"github.com/justyntemme/retrocall/pkg/dsp"
	"github.com/justyntemme/retrocall/pkg/dsp/envelope"
	"github.com/justyntemme/retrocall/pkg/dsp/filter"
	"github.com/justyntemme/retrocall/pkg/dsp/oscillator"
	"github.com/justyntemme/retrocall/pkg/dsp/utility"
	"github.com/justyntemme/retrocall/pkg/rand"
)

// Environment selects the bed.
type Environment int

const (
	Off Environment = iota
	Street
	Office
	Cafe
	Station
	Car

	// NumEnvironments is the number of environments including Off.
	NumEnvironments = int(Car) + 1
)

var environmentNames = [NumEnvironments]string{"Off", "Street", "Office", "Cafe", "Station", "Car"}

// Names returns the display names in Environment order.
func Names() []string {
	return environmentNames[:]
}

func (e Environment) String() string {
	if e < 0 || int(e) >= NumEnvironments {
		return "Unknown"
	}
	return environmentNames[e]
}

// MixScale is the bed gain at ambience level 1.
const MixScale = 0.05

// MaxTones bounds the tones of one profile.
const MaxTones = 3

// Tone is a steady tone whose amplitude breathes at Rate Hz by ±25%.
type Tone struct {
	Freq float64
	Amp  float64
	Rate float64
}

// Event is a decaying tone burst started Rate times per second on average.
type Event struct {
	Rate  float64
	Freq  float64
	Decay float64
	Amp   float64
}

// Profile describes one environment.
type Profile struct {
	Tones       []Tone
	Noise       float64
	NoiseCutoff float64
	Event       Event
}

var profiles = [NumEnvironments]Profile{
	Off: {},
	Street: {
		Tones:       []Tone{{55, 0.20, 0.3}, {110, 0.08, 0.17}},
		Noise:       0.6,
		NoiseCutoff: 800,
		Event:       Event{Rate: 0.08, Freq: 420, Decay: 0.25, Amp: 0.5},
	},
	Office: {
		Tones:       []Tone{{120, 0.12, 0.05}},
		Noise:       0.3,
		NoiseCutoff: 2000,
		Event:       Event{Rate: 0.03, Freq: 1400, Decay: 0.4, Amp: 0.3},
	},
	Cafe: {
		Tones:       []Tone{{180, 0.05, 0.4}, {240, 0.04, 0.23}},
		Noise:       0.5,
		NoiseCutoff: 3000,
		Event:       Event{Rate: 0.2, Freq: 2600, Decay: 0.08, Amp: 0.4},
	},
	Station: {
		Tones:       []Tone{{50, 0.25, 0.1}, {100, 0.10, 0.07}},
		Noise:       0.5,
		NoiseCutoff: 600,
		Event:       Event{Rate: 0.02, Freq: 660, Decay: 1.2, Amp: 0.5},
	},
	Car: {
		Tones:       []Tone{{35, 0.40, 0.2}, {70, 0.20, 0.13}, {140, 0.05, 0.31}},
		Noise:       0.7,
		NoiseCutoff: 400,
		Event:       Event{Rate: 0.5, Freq: 1000, Decay: 0.03, Amp: 0.2},
	},
}

// Profile returns the bed description of e.
func (e Environment) Profile() Profile {
	if e < 0 || int(e) >= NumEnvironments {
		return Profile{}
	}
	return profiles[e]
}

// Bed renders one environment. It owns its random stream so switching the
// bed on or off never shifts the randomness of other stages.
type Bed struct {
	env        Environment
	profile    Profile
	sampleRate float64
	rng        *rand.Rand

	tones [MaxTones]*oscillator.Oscillator
	lfos  [MaxTones]*oscillator.Oscillator

	noise  *utility.NoiseGenerator
	filter *filter.SVF

	event    *envelope.Decay
	eventOsc *oscillator.Oscillator
}

// New creates a silent bed.
func New(sampleRate float64, rng *rand.Rand) *Bed {
	b := &Bed{
		rng:      rng,
		noise:    utility.NewNoiseGenerator(utility.PinkNoise, rng),
		filter:   filter.NewSVF(1),
		event:    envelope.NewDecay(sampleRate, 0.1),
		eventOsc: oscillator.New(sampleRate),
	}
	for i := range b.tones {
		b.tones[i] = oscillator.New(sampleRate)
		b.lfos[i] = oscillator.New(sampleRate)
	}
	b.SetSampleRate(sampleRate)
	return b
}

// SetSampleRate retunes every source for a new rate.
func (b *Bed) SetSampleRate(sampleRate float64) {
	b.sampleRate = sampleRate
	for i := range b.tones {
		b.tones[i].SetSampleRate(sampleRate)
		b.lfos[i].SetSampleRate(sampleRate)
	}
	b.eventOsc.SetSampleRate(sampleRate)
	b.event.SetSampleRate(sampleRate)
	b.configure()
}

// SetEnvironment switches the bed. Unknown values select Off.
func (b *Bed) SetEnvironment(e Environment) {
	if e < 0 || int(e) >= NumEnvironments {
		e = Off
	}
	if e == b.env {
		return
	}
	b.env = e
	b.configure()
}

// Environment returns the active environment.
func (b *Bed) Environment() Environment {
	return b.env
}

func (b *Bed) configure() {
	b.profile = b.env.Profile()
	for i, t := range b.profile.Tones {
		if i >= MaxTones {
			break
		}
		b.tones[i].SetFrequency(t.Freq)
		b.lfos[i].SetFrequency(t.Rate)
	}
	if b.profile.NoiseCutoff > 0 {
		b.filter.SetFrequencyAndQ(b.sampleRate, b.profile.NoiseCutoff, dsp.DefaultQ)
	}
	if ev := b.profile.Event; ev.Decay > 0 {
		b.event.SetTime(ev.Decay)
		b.eventOsc.SetFrequency(ev.Freq)
	}
}

// Reset silences events and clears filter state.
func (b *Bed) Reset() {
	b.event.Reset()
	b.filter.Reset()
	b.noise.Reset()
	for i := range b.tones {
		b.tones[i].Reset()
		b.lfos[i].Reset()
	}
}

// Sanitize clears non-finite filter state.
func (b *Bed) Sanitize() bool {
	return b.filter.Sanitize()
}

// Next returns one bed sample.
func (b *Bed) Next() float32 {
	p := &b.profile
	var out float32

	for i := 0; i < len(p.Tones) && i < MaxTones; i++ {
		breath := 0.75 + 0.25*b.lfos[i].Sine()
		out += float32(p.Tones[i].Amp) * breath * b.tones[i].Sine()
	}

	if p.Noise > 0 {
		n := b.filter.ProcessSample(b.noise.Next(), 0).Lowpass
		out += float32(p.Noise) * n
	}

	if ev := p.Event; ev.Rate > 0 {
		if !b.event.IsActive() && b.rng.Chance(ev.Rate/b.sampleRate) {
			b.event.Trigger(ev.Amp)
			b.eventOsc.Reset()
		}
		if b.event.IsActive() {
			out += float32(b.event.Next()) * b.eventOsc.Sine()
		}
	}

	return out
}

// Render fills dst with bed samples.
func (b *Bed) Render(dst []float32) {
	for i := range dst {
		dst[i] = b.Next()
	}
}

// Mix renders n samples into scratch and adds them to every channel at
// level*MixScale. It reports false and touches nothing when the bed is off
// or level is zero.
func (b *Bed) Mix(channels [][]float32, n int, level float32, scratch []float32) bool {
	if b.env == Off || !(level > 0) || n <= 0 {
		return false
	}
	n = min(n, len(scratch))
	bed := scratch[:n]
	b.Render(bed)
	g := level * MixScale
	for _, ch := range channels {
		dsp.AddScaled(ch[:min(n, len(ch))], bed, g)
	}
	return true
}
