// Package gain provides dB conversions and gain ramps.
package gain

import (
	"math"
)

// MinDB is the floor returned for silent or negative amplitudes.
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if !(linear > 0) {
		return MinDB
	}
	return math.Max(MinDB, 20.0*math.Log10(linear))
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// LinearToDb32 is the float32 version of LinearToDb.
func LinearToDb32(linear float32) float32 {
	return float32(LinearToDb(float64(linear)))
}

// DbToLinear32 is the float32 version of DbToLinear.
func DbToLinear32(db float32) float32 {
	return float32(DbToLinear(float64(db)))
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// Fade applies a linear fade between two gain values.
func Fade(buffer []float32, startGain, endGain float32) {
	if len(buffer) == 0 {
		return
	}

	samples := float32(len(buffer) - 1)
	if samples <= 0 {
		buffer[0] *= startGain
		return
	}

	gainDelta := (endGain - startGain) / samples
	for i := range buffer {
		buffer[i] *= startGain + gainDelta*float32(i)
	}
}

// Crossfade blends dry into wet in place. The wet share ramps linearly
// from start to end over the common length, so start 1 end 0 fades from
// wet to dry.
func Crossfade(wet, dry []float32, start, end float32) {
	length := min(len(wet), len(dry))
	if length == 0 {
		return
	}

	var delta float32
	if length > 1 {
		delta = (end - start) / float32(length-1)
	}
	for i := 0; i < length; i++ {
		g := start + delta*float32(i)
		wet[i] = dry[i] + (wet[i]-dry[i])*g
	}
}
