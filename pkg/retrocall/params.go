package retrocall

import (
	"github.com/justyntemme/retrocall/pkg/dsp/ambience"
	"github.com/justyntemme/retrocall/pkg/dsp/pan"
	"github.com/justyntemme/retrocall/pkg/framework/param"
	"github.com/justyntemme/retrocall/pkg/phone"
	"github.com/justyntemme/retrocall/pkg/signal"
)

// Parameter IDs
const (
	ParamPhoneType uint32 = iota
	ParamLowCut
	ParamHighCut
	ParamDistortion
	ParamNoise
	ParamInterference
	ParamOverlay
	ParamInterferencePreset
	ParamCompression
	ParamSignalQuality
	ParamAmbience
	ParamAmbienceLevel
	ParamPosition
	ParamBypass
	ParamStrength
	ParamBars

	NumParams = int(ParamBars) + 1
)

var cutLabels = []string{"Off", "1", "2", "3", "4"}

func registerParameters(r *param.Registry) {
	def := phone.Lookup(phone.Classic).Defaults

	r.MustAdd(
		param.Choice(ParamPhoneType, "Phone Type", phone.Names()...).
			ShortName("Phone").
			Build(),
		param.Choice(ParamLowCut, "Low Cut", cutLabels...).
			Default(float64(def.LowCut)).
			Build(),
		param.Choice(ParamHighCut, "High Cut", cutLabels...).
			Default(float64(def.HighCut)).
			Build(),
		param.PercentParameter(ParamDistortion, "Distortion", def.Distortion*100).Build(),
		param.PercentParameter(ParamNoise, "Noise Level", def.Noise*100).
			ShortName("Noise").
			Build(),
		param.PercentParameter(ParamInterference, "Interference", def.Interference*100).Build(),
		param.SwitchParameter(ParamOverlay, "Interference Overlay").
			ShortName("Overlay").
			Build(),
		param.Choice(ParamInterferencePreset, "Interference Preset", "Clean", "Pattern 1", "Pattern 2", "Pattern 3").
			ShortName("Pattern").
			Build(),
		param.PercentParameter(ParamCompression, "Compression", def.Compression*100).Build(),
		param.Choice(ParamSignalQuality, "Signal Quality", signal.QualityNames()...).
			Default(float64(signal.Auto)).
			ShortName("Quality").
			Build(),
		param.Choice(ParamAmbience, "Ambience", ambience.Names()...).Build(),
		param.PercentParameter(ParamAmbienceLevel, "Ambience Level", 50).Build(),
		param.Choice(ParamPosition, "Call Position", pan.Names()...).
			ShortName("Position").
			Build(),
		param.BypassParameter(ParamBypass, "Bypass").Build(),
		param.Meter(ParamStrength, "Signal Strength", 0, 100).
			Unit("%").
			Formatter(param.PercentFormatter, param.PercentParser).
			Build(),
		param.Meter(ParamBars, "Signal Bars", signal.MinBars, signal.MaxBars).
			Steps(signal.MaxBars-signal.MinBars).
			Build(),
	)
}

// params caches the parameter pointers so the audio path never takes the
// registry lock.
type params struct {
	phoneType    *param.Parameter
	lowCut       *param.Parameter
	highCut      *param.Parameter
	distortion   *param.Parameter
	noise        *param.Parameter
	interference *param.Parameter
	overlay      *param.Parameter
	pattern      *param.Parameter
	compression  *param.Parameter
	quality      *param.Parameter
	ambience     *param.Parameter
	ambienceLvl  *param.Parameter
	position     *param.Parameter
	bypass       *param.Parameter
	strength     *param.Parameter
	bars         *param.Parameter
}

func cacheParameters(r *param.Registry) params {
	return params{
		phoneType:    r.Get(ParamPhoneType),
		lowCut:       r.Get(ParamLowCut),
		highCut:      r.Get(ParamHighCut),
		distortion:   r.Get(ParamDistortion),
		noise:        r.Get(ParamNoise),
		interference: r.Get(ParamInterference),
		overlay:      r.Get(ParamOverlay),
		pattern:      r.Get(ParamInterferencePreset),
		compression:  r.Get(ParamCompression),
		quality:      r.Get(ParamSignalQuality),
		ambience:     r.Get(ParamAmbience),
		ambienceLvl:  r.Get(ParamAmbienceLevel),
		position:     r.Get(ParamPosition),
		bypass:       r.Get(ParamBypass),
		strength:     r.Get(ParamStrength),
		bars:         r.Get(ParamBars),
	}
}

// snapshot is the parameter state of one block.
type snapshot struct {
	archetype    phone.Archetype
	lowCut       int
	highCut      int
	distortion   float32
	noise        float32
	interference float32
	pattern      int
	compression  float32
	quality      signal.Quality
	ambience     ambience.Environment
	ambienceLvl  float32
	position     pan.Position
	bypass       bool
}

func (p *params) snapshot() snapshot {
	s := snapshot{
		archetype:    phone.Archetype(p.phoneType.Index()),
		lowCut:       p.lowCut.Index(),
		highCut:      p.highCut.Index(),
		distortion:   float32(p.distortion.GetValue()),
		noise:        float32(p.noise.GetValue()),
		interference: float32(p.interference.GetValue()),
		compression:  float32(p.compression.GetValue()),
		quality:      signal.Quality(p.quality.Index()),
		ambience:     ambience.Environment(p.ambience.Index()),
		ambienceLvl:  float32(p.ambienceLvl.GetValue()),
		position:     pan.Position(p.position.Index()),
		bypass:       p.bypass.Index() != 0,
	}
	if p.overlay.Index() != 0 {
		s.pattern = p.pattern.Index()
	}
	return s
}

// applyPreset writes the archetype and its defaults in one batch.
func (p *params) applyPreset(a phone.Archetype) {
	d := phone.Lookup(a).Defaults
	p.phoneType.SetIndex(int(a))
	p.lowCut.SetIndex(d.LowCut)
	p.highCut.SetIndex(d.HighCut)
	p.distortion.SetValue(d.Distortion)
	p.noise.SetValue(d.Noise)
	p.interference.SetValue(d.Interference)
	p.compression.SetValue(d.Compression)
}
