// Package dsp provides buffer helpers and constants shared by the signal
// processing stages.
package dsp

import "math"

// Buffer utilities for common audio operations

// Clear zeroes a buffer - no allocations
func Clear(buffer []float32) {
	clear(buffer)
}

// Add adds source to destination - no allocations
func Add(dst, src []float32) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}

// AddScaled adds scaled source to destination - no allocations
func AddScaled(dst, src []float32, scale float32) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] += src[i] * scale
	}
}

// Scale multiplies buffer by a constant - no allocations
func Scale(buffer []float32, scale float32) {
	for i := range buffer {
		buffer[i] *= scale
	}
}

// MixDown averages the channels into dst. dst may alias one of the channels.
func MixDown(dst []float32, channels [][]float32) {
	if len(channels) == 0 {
		clear(dst)
		return
	}
	if len(channels) == 1 {
		copy(dst, channels[0])
		return
	}

	scale := 1 / float32(len(channels))
	for i := range dst {
		var sum float32
		for _, ch := range channels {
			if i < len(ch) {
				sum += ch[i]
			}
		}
		dst[i] = sum * scale
	}
}

// Peak finds the maximum absolute value in a buffer
func Peak(buffer []float32) float32 {
	peak := float32(0)
	for _, sample := range buffer {
		abs := float32(math.Abs(float64(sample)))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}

// RMS calculates the root mean square of a buffer
func RMS(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}

	var sum float64
	for _, sample := range buffer {
		sum += float64(sample) * float64(sample)
	}

	return float32(math.Sqrt(sum / float64(len(buffer))))
}

// Clip limits samples to [-limit, limit]
func Clip(buffer []float32, limit float32) {
	for i := range buffer {
		buffer[i] = ClampSample(buffer[i], limit)
	}
}

// ClampSample limits one sample to [-limit, limit], mapping NaN to 0
func ClampSample(sample, limit float32) float32 {
	switch {
	case sample != sample:
		return 0
	case sample > limit:
		return limit
	case sample < -limit:
		return -limit
	}
	return sample
}

// Sanitize maps non-finite samples to 0 and clamps the rest to ±1. It
// returns how many samples were non-finite.
func Sanitize(buffer []float32) int {
	bad := 0
	for i, s := range buffer {
		if !IsFinite32(s) {
			bad++
			buffer[i] = 0
			continue
		}
		buffer[i] = ClampSample(s, 1)
	}
	return bad
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinite32 is IsFinite for float32
func IsFinite32(v float32) bool {
	return IsFinite(float64(v))
}

// WrapPhase wraps a phase accumulator into [0, 2π)
func WrapPhase(phase float64) float64 {
	if phase >= 0 && phase < TwoPi {
		return phase
	}
	phase = math.Mod(phase, TwoPi)
	if phase < 0 {
		phase += TwoPi
	}
	if !IsFinite(phase) || phase >= TwoPi {
		return 0
	}
	return phase
}
