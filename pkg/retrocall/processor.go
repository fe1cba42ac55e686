// Package retrocall is the phone-call effect: filters, coloring, the
// signal dynamics engine and every degradation stage wired into one
// real-time processor.
package retrocall

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/justyntemme/retrocall/pkg/dsp"
	"github.com/justyntemme/retrocall/pkg/dsp/ambience"
	"github.com/justyntemme/retrocall/pkg/dsp/analysis"
	"github.com/justyntemme/retrocall/pkg/dsp/degrade"
	"github.com/justyntemme/retrocall/pkg/dsp/distortion"
	"github.com/justyntemme/retrocall/pkg/dsp/dynamics"
	"github.com/justyntemme/retrocall/pkg/dsp/filter"
	"github.com/justyntemme/retrocall/pkg/dsp/gain"
	"github.com/justyntemme/retrocall/pkg/dsp/interference"
	"github.com/justyntemme/retrocall/pkg/dsp/pan"
	"github.com/justyntemme/retrocall/pkg/dsp/tonal"
	"github.com/justyntemme/retrocall/pkg/framework/bus"
	"github.com/justyntemme/retrocall/pkg/framework/plugin"
	"github.com/justyntemme/retrocall/pkg/framework/process"
	"github.com/justyntemme/retrocall/pkg/framework/state"
	"github.com/justyntemme/retrocall/pkg/log"
	"github.com/justyntemme/retrocall/pkg/phone"
	"github.com/justyntemme/retrocall/pkg/rand"
	"github.com/justyntemme/retrocall/pkg/signal"
	"github.com/justyntemme/retrocall/pkg/version"
)

// DefaultSeed seeds every random stream unless SetSeed is called.
const DefaultSeed int64 = 0x5eed

// LevelWindow is the audio level meter window in seconds.
const LevelWindow = 0.05

var (
	// ErrUnknownArchetype is returned by LoadPreset.
	ErrUnknownArchetype = phone.ErrUnknownArchetype
	// ErrConfigLocked is returned when configuration changes after Prepare.
	ErrConfigLocked = errors.New("configuration is fixed once prepared")
)

// Info describes the processor.
var Info = plugin.Info{
	ID:       "com.justyntemme.retrocall",
	Name:     "RetroCall",
	Version:  version.Version(),
	Vendor:   "retrocall",
	Category: "Fx|Distortion",
}

var _ plugin.Processor = (*Processor)(nil)

// Processor is one independent instance of the effect. ProcessAudio must be
// called from a single goroutine; parameters, LoadPreset, LoadState and
// Status are safe from any goroutine.
type Processor struct {
	*plugin.BaseProcessor

	log    *log.Logger
	p      params
	seed   int64
	config signal.Config

	// pending is the archetype to apply plus one, 0 when none.
	pending atomic.Int32
	// pendingState is a decoded state waiting for the next block.
	pendingState atomic.Pointer[state.Snapshot]
	status       status

	prepared   bool
	channels   int
	sampleRate float64
	maxBlock   int
	tuning     signal.Tuning

	archetype phone.Archetype
	profile   *phone.Profile
	bypassed  bool

	engineRng       *rand.Rand
	effectsRng      *rand.Rand
	ambienceRng     *rand.Rand
	interferenceRng *rand.Rand

	lowCut   *filter.Cut
	highCut  *filter.Cut
	color    *tonal.Color
	engine   signal.State
	override *signal.Override
	degrade  *degrade.Stage
	shaper   *distortion.Shaper
	overlay  *interference.Overlay
	bed      *ambience.Bed
	meter    *analysis.RMSMeter

	scratch []float32
	dry     [][]float32
	sub     process.Context
}

// New creates a stereo processor with default parameters. l may be nil.
func New(l *log.Logger) *Processor {
	p := &Processor{
		BaseProcessor: plugin.NewBaseProcessor(Info, bus.NewStereoConfiguration()),
		log:           l,
		seed:          DefaultSeed,
		config:        signal.DefaultConfig(),
		archetype:     phone.Classic,
		profile:       phone.Lookup(phone.Classic),
	}

	registerParameters(p.Parameters())
	p.p = cacheParameters(p.Parameters())
	p.State().SetCustom(p)

	p.OnInitialize(p.initialize)
	p.OnSetBuses(p.negotiate)
	p.OnReset(p.Reset)

	p.publish(p.profile.Band.Initial, signal.Bars(p.profile.Band.Initial), false, 0, 0)
	return p
}

// SetSeed selects the seed of every random stream. It takes effect at the
// next Prepare or Reset.
func (p *Processor) SetSeed(seed int64) {
	p.seed = seed
}

// Seed returns the configured seed.
func (p *Processor) Seed() int64 {
	return p.seed
}

// SetConfig replaces the engine configuration. It must be called before
// Prepare.
func (p *Processor) SetConfig(cfg signal.Config) error {
	if p.prepared {
		return ErrConfigLocked
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.config = cfg
	return nil
}

// Config returns the engine configuration.
func (p *Processor) Config() signal.Config {
	return p.config
}

// SetLogger replaces the lifecycle logger.
func (p *Processor) SetLogger(l *log.Logger) {
	p.log = l
}

// Prepare allocates every stage for sampleRate and blocks of up to
// maxBlockSize samples.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := p.Initialize(sampleRate, int32(maxBlockSize)); err != nil {
		return err
	}
	return p.SetActive(true)
}

func (p *Processor) negotiate(cfg *bus.Configuration) error {
	in := cfg.MainChannels(bus.DirectionInput)
	out := cfg.MainChannels(bus.DirectionOutput)
	if in != out || in < 1 || in > 2 {
		return fmt.Errorf("%w: %d in, %d out (mono or stereo, in == out)", plugin.ErrUnsupportedBuses, in, out)
	}
	if cfg.HasActiveAux() {
		return fmt.Errorf("%w: auxiliary buses are not supported", plugin.ErrUnsupportedBuses)
	}
	p.log.Info("buses negotiated", "channels", in)
	if p.prepared && int(in) != p.channels {
		// stages are sized per channel
		p.prepared = false
	}
	return nil
}

func (p *Processor) initialize(sampleRate float64, maxBlockSize int32) error {
	channels := int(p.GetBuses().MainChannels(bus.DirectionOutput))
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%w: %d channels", plugin.ErrUnsupportedBuses, channels)
	}

	p.channels = channels
	p.sampleRate = sampleRate
	p.maxBlock = int(maxBlockSize)
	p.tuning = p.config.Tune(sampleRate)

	p.engineRng = rand.New(p.seed, rand.StreamEngine)
	p.effectsRng = rand.New(p.seed, rand.StreamEffects)
	p.ambienceRng = rand.New(p.seed, rand.StreamAmbience)
	p.interferenceRng = rand.New(p.seed, rand.StreamInterference)

	p.archetype = phone.Archetype(p.p.phoneType.Index())
	p.profile = phone.Lookup(p.archetype)

	p.lowCut = filter.NewCut(filter.LowCut, channels)
	p.highCut = filter.NewCut(filter.HighCut, channels)
	p.lowCut.Prepare(sampleRate)
	p.highCut.Prepare(sampleRate)
	p.color = tonal.New(p.profile.Color, channels, sampleRate, p.effectsRng)
	p.shaper = distortion.NewShaper(p.profile.Distortion, channels, sampleRate, p.effectsRng)
	p.degrade = degrade.New(channels, sampleRate, p.effectsRng)
	p.override = signal.NewOverride(sampleRate, signal.Quality(p.p.quality.Index()))
	p.overlay = interference.New(sampleRate, p.interferenceRng)
	p.bed = ambience.New(sampleRate, p.ambienceRng)
	p.meter = analysis.NewRMSMeter(int(LevelWindow * sampleRate))

	p.scratch = make([]float32, p.maxBlock)
	p.dry = make([][]float32, channels)
	for ch := range p.dry {
		p.dry[ch] = make([]float32, p.maxBlock)
	}
	p.sub.Input = make([][]float32, 0, channels)
	p.sub.Output = make([][]float32, 0, channels)

	p.engine = signal.NewState(&p.tuning, p.profile.Band, p.engineRng)
	p.bypassed = p.p.bypass.Index() != 0
	p.prepared = true

	p.log.Info("prepared",
		"sample_rate", sampleRate,
		"max_block", maxBlockSize,
		"channels", channels,
		"phone", p.archetype.String(),
		"seed", p.seed)
	return nil
}

// Reset clears all stage history and restarts every random stream from
// the seed, so a Reset run reproduces a fresh Prepare run.
func (p *Processor) Reset() {
	if !p.prepared {
		return
	}
	p.engineRng.Seed(p.seed, rand.StreamEngine)
	p.effectsRng.Seed(p.seed, rand.StreamEffects)
	p.ambienceRng.Seed(p.seed, rand.StreamAmbience)
	p.interferenceRng.Seed(p.seed, rand.StreamInterference)

	p.lowCut.Reset()
	p.highCut.Reset()
	p.color.Reset()
	p.shaper.Reset()
	p.degrade.Reset()
	p.overlay.Reset()
	p.bed.Reset()
	p.meter.Reset()
	p.override.Reset(signal.Quality(p.p.quality.Index()))

	p.engine = signal.NewState(&p.tuning, p.profile.Band, p.engineRng)
	p.publish(p.engine.Strength, p.engine.Bars, false, 0, 0)
	p.log.Info("reset", "seed", p.seed)
}

// LoadPreset schedules archetype a and its parameter defaults. The batch
// is written at the start of the next block so no block sees a mix of two
// presets.
func (p *Processor) LoadPreset(a phone.Archetype) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownArchetype, a)
	}
	p.pending.Store(int32(a) + 1)
	if !p.prepared {
		p.applyPending()
	}
	return nil
}

// LoadState decodes a saved state and schedules it like LoadPreset. A
// preset scheduled before the same block is applied on top of it.
func (p *Processor) LoadState(r io.Reader) error {
	snap, err := state.Read(r)
	if err != nil {
		return err
	}
	if len(snap.Custom) > 0 {
		if _, err := decodeCustom(snap.Custom); err != nil {
			return fmt.Errorf("%w: %w", state.ErrInvalidFormat, err)
		}
	}
	p.pendingState.Store(snap)
	if !p.prepared {
		p.applyPending()
	}
	return nil
}

func (p *Processor) applyPending() {
	if snap := p.pendingState.Swap(nil); snap != nil {
		// format and custom data were checked by LoadState
		_ = p.State().Apply(snap)
	}
	if v := p.pending.Swap(0); v != 0 {
		p.p.applyPreset(phone.Archetype(v - 1))
		p.status.presets.Add(1)
	}
}

// setArchetype swaps every per-archetype table. Engine state carries over;
// only the band of future re-rolls changes.
func (p *Processor) setArchetype(a phone.Archetype) {
	p.archetype = a
	p.profile = phone.Lookup(a)
	p.color.SetProfile(p.profile.Color)
	p.shaper.SetProfile(p.profile.Distortion)
}

// ProcessAudio runs one block. Blocks longer than the prepared maximum are
// processed in slices.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	n := ctx.NumSamples()
	if !p.prepared || n == 0 {
		ctx.PassThrough()
		return
	}
	if n <= p.maxBlock {
		p.processBlock(ctx)
		return
	}
	for from := 0; from < n; from += p.maxBlock {
		ctx.Slice(&p.sub, from, min(from+p.maxBlock, n))
		p.processBlock(&p.sub)
	}
}

func (p *Processor) processBlock(ctx *process.Context) {
	p.applyPending()
	s := p.p.snapshot()
	if s.archetype != p.archetype && s.archetype.Valid() {
		p.setArchetype(s.archetype)
	}

	channels := min(ctx.NumChannels(), p.channels)
	n := ctx.NumSamples()
	out := ctx.Output[:channels]

	if s.bypass && p.bypassed {
		ctx.PassThrough()
		return
	}

	fading := s.bypass != p.bypassed
	if fading {
		for ch := 0; ch < channels; ch++ {
			copy(p.dry[ch][:n], ctx.Input[ch][:n])
		}
	}

	p.sanitize()
	ctx.PassThrough()

	// ambience bed
	p.bed.SetEnvironment(s.ambience)
	p.bed.Mix(out, n, s.ambienceLvl, p.scratch)

	// filters
	p.lowCut.SetCorner(p.profile.LowCutHz(s.lowCut))
	p.highCut.SetCorner(p.profile.HighCutHz(s.highCut))
	for ch := 0; ch < channels; ch++ {
		p.lowCut.Process(out[ch][:n], ch)
		p.highCut.Process(out[ch][:n], ch)
	}

	p.overlay.SetPattern(p.profile.Pattern(s.pattern), p.profile.Noise)
	invChannels := 1 / float32(channels)

	var strength float64
	var dropout bool
	for i := 0; i < n; i++ {
		var mono float32
		for ch := 0; ch < channels; ch++ {
			mono += out[ch][i]
		}
		signal.Step(&p.engine, &p.tuning, p.profile.Band, mono*invChannels, p.engineRng)
		strength, dropout = p.override.Apply(s.quality, p.engine.Strength, p.engine.Dropout)
		p.degrade.Begin(strength, dropout)
		add, g := p.overlay.Next(s.interference, s.noise)

		for ch := 0; ch < channels; ch++ {
			x := p.color.Process(out[ch][i], ch)
			x = p.degrade.Process(x, ch)
			x = p.shaper.Shape(x, s.distortion, ch)
			x = dynamics.StaticCompress(x, s.compression)
			x = x*g + add
			if !dsp.IsFinite32(x) {
				x = 0
			}
			out[ch][i] = dsp.ClampSample(x, 1)
		}
	}

	// call position
	if channels == 2 {
		if m := s.position.Matrix(); !m.IsIdentity() {
			pan.Apply(out[0][:n], out[1][:n], m)
		}
	}

	if fading {
		start, end := float32(1), float32(0)
		if p.bypassed {
			start, end = 0, 1
		}
		for ch := 0; ch < channels; ch++ {
			gain.Crossfade(out[ch][:n], p.dry[ch][:n], start, end)
		}
		p.bypassed = s.bypass
	}

	dsp.MixDown(p.scratch[:n], out)
	p.meter.Process(p.scratch[:n])
	p.publish(strength, signal.Bars(strength), dropout, p.engine.Voice, p.meter.GetRMS())
}

// sanitize resets any state that went non-finite in the previous block.
func (p *Processor) sanitize() {
	repaired := p.lowCut.Sanitize()
	repaired = p.highCut.Sanitize() || repaired
	repaired = p.color.Sanitize() || repaired
	repaired = p.shaper.Sanitize() || repaired
	repaired = p.degrade.Sanitize() || repaired
	repaired = p.overlay.Sanitize() || repaired
	repaired = p.bed.Sanitize() || repaired
	repaired = p.meter.Sanitize() || repaired
	repaired = p.engine.Sanitize(p.profile.Band) || repaired
	if repaired {
		p.status.repairs.Add(1)
	}
}
