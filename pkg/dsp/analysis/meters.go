package analysis

import (
	"math"
)

// RMSMeter measures a sliding-window RMS level. It is owned by one
// goroutine and never allocates after construction.
type RMSMeter struct {
	windowSize int
	buffer     []float32
	writePos   int
	sum        float64
	count      int
}

// NewRMSMeter creates a new RMS meter with specified window size
func NewRMSMeter(windowSizeSamples int) *RMSMeter {
	windowSizeSamples = max(1, windowSizeSamples)
	return &RMSMeter{
		windowSize: windowSizeSamples,
		buffer:     make([]float32, windowSizeSamples),
	}
}

// Process updates the RMS meter with new samples
func (rm *RMSMeter) Process(samples []float32) {
	for _, sample := range samples {
		old := float64(rm.buffer[rm.writePos])
		s := float64(sample)
		rm.sum += s*s - old*old
		rm.buffer[rm.writePos] = sample

		rm.writePos++
		if rm.writePos == rm.windowSize {
			rm.writePos = 0
		}
		if rm.count < rm.windowSize {
			rm.count++
		}
	}
}

// GetRMS returns the current RMS level (linear)
func (rm *RMSMeter) GetRMS() float64 {
	if rm.count == 0 || !(rm.sum > 0) {
		return 0
	}
	return math.Sqrt(rm.sum / float64(rm.count))
}

// GetRMSDB returns the current RMS level in decibels
func (rm *RMSMeter) GetRMSDB() float64 {
	rms := rm.GetRMS()
	if rms > 0 {
		return 20.0 * math.Log10(rms)
	}
	return math.Inf(-1)
}

// Reset clears the RMS buffer
func (rm *RMSMeter) Reset() {
	clear(rm.buffer)
	rm.sum = 0
	rm.count = 0
	rm.writePos = 0
}

// Sanitize resets the meter if its running sum went non-finite.
func (rm *RMSMeter) Sanitize() bool {
	if math.IsNaN(rm.sum) || math.IsInf(rm.sum, 0) {
		rm.Reset()
		return true
	}
	return false
}
