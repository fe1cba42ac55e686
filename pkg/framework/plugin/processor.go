// Package plugin provides the processor lifecycle shared by audio effects:
// bus negotiation, preparation and activation.
package plugin

import (
	"errors"
	"fmt"

	"github.com/justyntemme/retrocall/pkg/framework/bus"
	"github.com/justyntemme/retrocall/pkg/framework/param"
	"github.com/justyntemme/retrocall/pkg/framework/process"
	"github.com/justyntemme/retrocall/pkg/framework/state"
)

// Supported sample rate range
const (
	MinSampleRate = 8000.0
	MaxSampleRate = 192000.0
)

var (
	// ErrUnsupportedSampleRate is returned by Initialize for rates outside
	// [MinSampleRate, MaxSampleRate].
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")
	// ErrUnsupportedBuses is returned when a bus layout is rejected.
	ErrUnsupportedBuses = errors.New("unsupported bus configuration")
	// ErrInvalidBlockSize is returned for non-positive block sizes.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrNotPrepared is returned by operations that need Initialize first.
	ErrNotPrepared = errors.New("processor not prepared")
)

// Processor is the lifecycle every effect in this module implements
type Processor interface {
	Initialize(sampleRate float64, maxBlockSize int32) error
	SetBuses(cfg *bus.Configuration) error
	SetActive(active bool) error
	ProcessAudio(ctx *process.Context)
	GetParameters() *param.Registry
}

// BaseProcessor provides common functionality for audio processors
type BaseProcessor struct {
	Info Info

	params       *param.Registry
	state        *state.Manager
	buses        *bus.Configuration
	sampleRate   float64
	maxBlockSize int32
	active       bool

	// Optional callbacks for customization
	onInitialize func(sampleRate float64, maxBlockSize int32) error
	onSetBuses   func(cfg *bus.Configuration) error
	onSetActive  func(active bool) error
	onReset      func()
}

// NewBaseProcessor creates a new base processor with the given bus configuration
func NewBaseProcessor(info Info, buses *bus.Configuration) *BaseProcessor {
	if buses == nil {
		buses = bus.NewStereoConfiguration() // Default to stereo
	}

	params := param.NewRegistry()
	return &BaseProcessor{
		Info:   info,
		params: params,
		state:  state.NewManager(params),
		buses:  buses,
	}
}

// Initialize validates the stream format and runs the initialize callback
func (b *BaseProcessor) Initialize(sampleRate float64, maxBlockSize int32) error {
	if !(sampleRate >= MinSampleRate && sampleRate <= MaxSampleRate) {
		return fmt.Errorf("%w: %g Hz (supported %g-%g Hz)", ErrUnsupportedSampleRate, sampleRate, MinSampleRate, MaxSampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}

	if b.onInitialize != nil {
		if err := b.onInitialize(sampleRate, maxBlockSize); err != nil {
			return err
		}
	}

	b.sampleRate = sampleRate
	b.maxBlockSize = maxBlockSize
	return nil
}

// SetBuses negotiates a new bus layout. The callback may reject it, in which
// case the previous layout is kept.
func (b *BaseProcessor) SetBuses(cfg *bus.Configuration) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil configuration", ErrUnsupportedBuses)
	}
	if b.onSetBuses != nil {
		if err := b.onSetBuses(cfg); err != nil {
			return err
		}
	}
	b.buses = cfg
	return nil
}

// GetParameters implements the Processor interface
func (b *BaseProcessor) GetParameters() *param.Registry {
	return b.params
}

// GetBuses returns the negotiated bus layout
func (b *BaseProcessor) GetBuses() *bus.Configuration {
	return b.buses
}

// State returns the parameter state manager
func (b *BaseProcessor) State() *state.Manager {
	return b.state
}

// SetActive implements the Processor interface. Deactivation resets state.
func (b *BaseProcessor) SetActive(active bool) error {
	if active && b.sampleRate == 0 {
		return ErrNotPrepared
	}
	if !active && b.onReset != nil {
		b.onReset()
	}

	if b.onSetActive != nil {
		if err := b.onSetActive(active); err != nil {
			return err
		}
	}

	b.active = active
	return nil
}

// IsActive reports whether the processor is between SetActive(true) and
// SetActive(false)
func (b *BaseProcessor) IsActive() bool {
	return b.active
}

// GetLatencySamples reports no latency
func (b *BaseProcessor) GetLatencySamples() int32 {
	return 0
}

// SampleRate returns the current sample rate, 0 before Initialize
func (b *BaseProcessor) SampleRate() float64 {
	return b.sampleRate
}

// MaxBlockSize returns the block size given to Initialize
func (b *BaseProcessor) MaxBlockSize() int32 {
	return b.maxBlockSize
}

// Parameters returns the parameter registry for adding parameters
func (b *BaseProcessor) Parameters() *param.Registry {
	return b.params
}

// OnInitialize sets a callback for initialization
func (b *BaseProcessor) OnInitialize(fn func(sampleRate float64, maxBlockSize int32) error) {
	b.onInitialize = fn
}

// OnSetBuses sets a callback that accepts or rejects bus layouts
func (b *BaseProcessor) OnSetBuses(fn func(cfg *bus.Configuration) error) {
	b.onSetBuses = fn
}

// OnSetActive sets a callback for activation/deactivation
func (b *BaseProcessor) OnSetActive(fn func(active bool) error) {
	b.onSetActive = fn
}

// OnReset sets a callback for when the processor should reset its state
func (b *BaseProcessor) OnReset(fn func()) {
	b.onReset = fn
}
