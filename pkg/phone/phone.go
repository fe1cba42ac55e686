// Package phone holds the constants of the three handset archetypes: the
// cut presets, coloring, distortion character, signal stability and
// interference patterns that make each one recognisable.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justyntemme/retrocall/pkg/dsp/distortion"
	"github.com/justyntemme/retrocall/pkg/dsp/interference"
	"github.com/justyntemme/retrocall/pkg/dsp/tonal"
	"github.com/justyntemme/retrocall/pkg/signal"
)

// Archetype identifies a phone model family.
type Archetype int

const (
	Classic Archetype = iota
	Modern
	Vintage

	NumArchetypes = int(Vintage) + 1
)

var archetypeNames = [NumArchetypes]string{"Classic", "Modern", "Vintage"}

// Names returns the short archetype names in order.
func Names() []string {
	return archetypeNames[:]
}

func (a Archetype) String() string {
	if !a.Valid() {
		return "Unknown"
	}
	return archetypeNames[a]
}

// ErrUnknownArchetype is returned by Parse.
var ErrUnknownArchetype = errors.New("unknown phone archetype")

// Parse accepts a short name ("vintage") or a preset name ("Vintage Flip"),
// case-insensitively.
func Parse(name string) (Archetype, error) {
	name = strings.TrimSpace(name)
	for i := range profiles {
		if strings.EqualFold(name, archetypeNames[i]) || strings.EqualFold(name, profiles[i].Name) {
			return Archetype(i), nil
		}
	}
	return Classic, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
}

// Valid reports whether a names a known archetype.
func (a Archetype) Valid() bool {
	return a >= 0 && int(a) < NumArchetypes
}

// CutPresets is the number of selectable corners per cut, excluding Off.
const CutPresets = 4

// Defaults are the parameter values a preset load writes.
type Defaults struct {
	LowCut       int
	HighCut      int
	Distortion   float64
	Noise        float64
	Interference float64
	Compression  float64
}

// Profile is everything that distinguishes one archetype.
type Profile struct {
	Name string

	// LowCuts and HighCuts hold the corners in Hz for indices 1..4.
	LowCuts  [CutPresets]float64
	HighCuts [CutPresets]float64

	Color      tonal.Profile
	Distortion distortion.Profile
	Band       signal.Band
	Noise      interference.BaseNoise
	// Patterns are the interference presets 1..3; preset 0 is Clean.
	Patterns [3]interference.Kind

	Defaults Defaults
}

var profiles = [NumArchetypes]Profile{
	Classic: {
		Name:     "Classic GSM",
		LowCuts:  [CutPresets]float64{120, 180, 240, 300},
		HighCuts: [CutPresets]float64{2500, 3000, 3400, 4000},
		Color: tonal.Profile{
			Curve:   tonal.Tanh,
			Drive:   1.04545,
			OutGain: 0.95,
			Depth:   0.015,
			Rate:    0.037,
		},
		Distortion: distortion.DigitalClip,
		Band:       signal.Band{Range: signal.Range{Low: 0.55, High: 0.95}, Initial: 0.75},
		Noise:      interference.BaseNoise{Kind: interference.White, Amp: 0.008},
		Patterns:   [3]interference.Kind{interference.GSMBuzz, interference.Clicks, interference.Bursts},
		Defaults: Defaults{
			LowCut:       4,
			HighCut:      4,
			Noise:        0.05,
			Interference: 0.1,
			Compression:  0.3,
		},
	},
	Modern: {
		Name:     "Modern Smartphone",
		LowCuts:  [CutPresets]float64{80, 120, 160, 200},
		HighCuts: [CutPresets]float64{4000, 6000, 8000, 10000},
		Color: tonal.Profile{
			Curve:   tonal.Tanh,
			Drive:   1.02718,
			OutGain: 0.9,
			Depth:   0.01,
			Rate:    0.0168,
		},
		Distortion: distortion.SmoothClip,
		Band:       signal.Band{Range: signal.Range{Low: 0.7, High: 1.0}, Initial: 0.85},
		Noise:      interference.BaseNoise{Kind: interference.White, Amp: 0.005},
		Patterns:   [3]interference.Kind{interference.SpeakerBlips, interference.ChargingHum, interference.DataSync},
		Defaults: Defaults{
			LowCut:       4,
			HighCut:      3,
			Noise:        0.02,
			Interference: 0.05,
			Compression:  0.15,
		},
	},
	Vintage: {
		Name:     "Vintage Flip",
		LowCuts:  [CutPresets]float64{150, 250, 350, 450},
		HighCuts: [CutPresets]float64{2000, 2500, 3000, 3500},
		Color: tonal.Profile{
			Curve:   tonal.Atan,
			Drive:   1.0225,
			OutGain: 0.85,
			Depth:   0.02,
			Rate:    0.0216,
			Flutter: 0.0018,
		},
		Distortion: distortion.AnalogSaturation,
		Band:       signal.Band{Range: signal.Range{Low: 0.35, High: 0.85}, Initial: 0.6},
		Noise:      interference.BaseNoise{Kind: interference.Hiss, Amp: 0.012},
		Patterns:   [3]interference.Kind{interference.Underground, interference.Wind, interference.FlipStatic},
		Defaults: Defaults{
			LowCut:       2,
			HighCut:      2,
			Distortion:   0.1,
			Noise:        0.08,
			Interference: 0.12,
			Compression:  0.4,
		},
	},
}

// Lookup returns the profile of a. Unknown archetypes fall back to Classic.
func Lookup(a Archetype) *Profile {
	if !a.Valid() {
		a = Classic
	}
	return &profiles[a]
}

// PresetNames returns the long preset names in archetype order.
func PresetNames() []string {
	names := make([]string, NumArchetypes)
	for i := range profiles {
		names[i] = profiles[i].Name
	}
	return names
}

// LowCutHz returns the low cut corner for a preset index. Index 0 and
// invalid indices are Off and return 0.
func (p *Profile) LowCutHz(index int) float64 {
	return corner(&p.LowCuts, index)
}

// HighCutHz returns the high cut corner for a preset index, 0 for Off.
func (p *Profile) HighCutHz(index int) float64 {
	return corner(&p.HighCuts, index)
}

func corner(table *[CutPresets]float64, index int) float64 {
	if index < 1 || index > CutPresets {
		return 0
	}
	return table[index-1]
}

// Pattern returns the interference kind for a preset index; 0 and invalid
// indices are Clean.
func (p *Profile) Pattern(index int) interference.Kind {
	if index < 1 || index > len(p.Patterns) {
		return interference.Clean
	}
	return p.Patterns[index-1]
}
