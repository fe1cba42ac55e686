package retrocall

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justyntemme/retrocall/pkg/dsp/gain"
)

// Status is the read-only view a display polls once per redraw.
type Status struct {
	// Strength is the effective signal strength in [0, 1] after any
	// quality override.
	Strength float64
	Bars     int
	Dropout  bool
	// Voice is the voice activity in [0, 1].
	Voice float64
	// Level is the RMS of the output.
	Level float64

	// Dropouts counts dropout onsets since Prepare or Reset.
	Dropouts uint64
	// Presets counts applied preset loads.
	Presets uint64
	// Repairs counts blocks that started with non-finite state.
	Repairs uint64
}

// LevelDB returns Level in dBFS.
func (s Status) LevelDB() float64 {
	return gain.LinearToDb(s.Level)
}

func (s Status) String() string {
	return fmt.Sprintf("strength=%.3f bars=%d dropout=%t voice=%.3f level=%.1fdB",
		s.Strength, s.Bars, s.Dropout, s.Voice, s.LevelDB())
}

type status struct {
	strength atomic.Uint64
	voice    atomic.Uint64
	level    atomic.Uint64
	bars     atomic.Int32
	dropout  atomic.Bool
	dropouts atomic.Uint64
	presets  atomic.Uint64
	repairs  atomic.Uint64
}

// publish stores the end-of-block status and writes the meter parameters.
func (p *Processor) publish(strength float64, bars int, dropout bool, voice, level float64) {
	p.status.strength.Store(math.Float64bits(strength))
	p.status.voice.Store(math.Float64bits(voice))
	p.status.level.Store(math.Float64bits(level))
	p.status.bars.Store(int32(bars))
	p.status.dropout.Store(dropout)
	p.status.dropouts.Store(p.engine.Dropouts)

	p.p.strength.SetPlainValue(strength * 100)
	p.p.bars.SetPlainValue(float64(bars))
}

// Status returns the latest published status.
func (p *Processor) Status() Status {
	return Status{
		Strength: math.Float64frombits(p.status.strength.Load()),
		Bars:     int(p.status.bars.Load()),
		Dropout:  p.status.dropout.Load(),
		Voice:    math.Float64frombits(p.status.voice.Load()),
		Level:    math.Float64frombits(p.status.level.Load()),
		Dropouts: p.status.dropouts.Load(),
		Presets:  p.status.presets.Load(),
		Repairs:  p.status.repairs.Load(),
	}
}

// customState is the non-parameter part of a saved state.
type customState struct {
	Seed int64 `msgpack:"seed"`
}

// SaveCustom stores the seed alongside the parameters.
func (p *Processor) SaveCustom() ([]byte, error) {
	return msgpack.Marshal(customState{Seed: p.seed})
}

// LoadCustom restores the seed. It takes effect at the next Prepare or
// Reset.
func (p *Processor) LoadCustom(data []byte) error {
	c, err := decodeCustom(data)
	if err != nil {
		return err
	}
	p.seed = c.Seed
	return nil
}

func decodeCustom(data []byte) (customState, error) {
	var c customState
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decoding custom state: %w", err)
	}
	return c, nil
}
