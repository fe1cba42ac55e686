// Package param provides the lock-free parameter surface shared by the control
// side (host, editor, CLI) and the audio thread.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter represents a single named, range-bound control value
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64
	StepCount    int32
	Flags        uint32
	Labels       []string // display names for list parameters, indexed by step

	// Atomic value for lock-free access in audio thread
	value atomic.Uint64 // normalized value as float64 bits

	// Value formatting
	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
	IsList      uint32 = 1 << 3
	IsHidden    uint32 = 1 << 4
	IsBypass    uint32 = 1 << 16
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value (0-1). Out-of-range and non-finite
// values are clamped, discrete parameters snap to the nearest step.
func (p *Parameter) SetValue(value float64) {
	p.value.Store(math.Float64bits(p.quantize(clampUnit(value))))
}

// GetPlainValue converts normalized to plain value
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value
func (p *Parameter) SetPlainValue(plain float64) {
	if p.Max <= p.Min {
		p.SetValue(0)
		return
	}
	p.SetValue(p.Normalize(plain))
}

// Index returns the current step of a discrete parameter (0..StepCount).
// Continuous parameters report 0.
func (p *Parameter) Index() int {
	if p.StepCount <= 0 {
		return 0
	}
	return int(math.Round(p.GetValue() * float64(p.StepCount)))
}

// SetIndex selects a step of a discrete parameter, clamped to the valid range.
func (p *Parameter) SetIndex(index int) {
	if p.StepCount <= 0 {
		return
	}
	p.SetValue(float64(index) / float64(p.StepCount))
}

// Reset restores the default value
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// IsDiscrete reports whether the parameter has a finite number of steps
func (p *Parameter) IsDiscrete() bool {
	return p.StepCount > 0
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)

	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	if p.StepCount > 0 {
		// For discrete parameters, show the label or integer
		index := int(math.Round(clampUnit(normalized) * float64(p.StepCount)))
		if index < len(p.Labels) {
			return p.Labels[index]
		}
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// String formats the current value
func (p *Parameter) String() string {
	return p.FormatValue(p.GetValue())
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	// Default parsing
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q for %s", ErrInvalidValue, str, p.Name)
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	return clampUnit((plain - p.Min) / (p.Max - p.Min))
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	return p.Min + clampUnit(normalized)*(p.Max-p.Min)
}

func (p *Parameter) quantize(normalized float64) float64 {
	if p.StepCount <= 0 {
		return normalized
	}
	steps := float64(p.StepCount)
	return math.Round(normalized*steps) / steps
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
