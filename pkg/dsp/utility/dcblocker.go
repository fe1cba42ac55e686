package utility

import "math"

// DCBlocker removes DC offset from audio signals.
// Uses a high-pass filter with a very low cutoff frequency.
type DCBlocker struct {
	// State variables for each channel
	x1 []float32 // Previous input
	y1 []float32 // Previous output

	coefficient float32
}

// NewDCBlocker creates a new DC blocker for the specified number of channels.
// The cutoff frequency is typically around 5-20 Hz.
func NewDCBlocker(channels int, cutoffHz float32, sampleRate float64) *DCBlocker {
	dc := &DCBlocker{
		x1: make([]float32, channels),
		y1: make([]float32, channels),
	}
	dc.SetCutoff(cutoffHz, sampleRate)
	return dc
}

// Process removes DC offset from a single sample on a single channel.
func (dc *DCBlocker) Process(input float32, channel int) float32 {
	if channel >= len(dc.x1) {
		return input
	}

	// y[n] = x[n] - x[n-1] + R * y[n-1]
	output := input - dc.x1[channel] + dc.coefficient*dc.y1[channel]

	dc.x1[channel] = input
	dc.y1[channel] = output

	return output
}

// ProcessBuffer removes DC offset from a buffer in-place.
func (dc *DCBlocker) ProcessBuffer(buffer []float32, channel int) {
	if channel >= len(dc.x1) {
		return
	}

	for i := range buffer {
		buffer[i] = dc.Process(buffer[i], channel)
	}
}

// Reset clears the DC blocker state.
func (dc *DCBlocker) Reset() {
	clear(dc.x1)
	clear(dc.y1)
}

// ResetChannel clears the state of one channel.
func (dc *DCBlocker) ResetChannel(channel int) {
	if channel < 0 || channel >= len(dc.x1) {
		return
	}
	dc.x1[channel] = 0
	dc.y1[channel] = 0
}

// Sanitize clears non-finite state and reports whether it had to.
func (dc *DCBlocker) Sanitize() bool {
	reset := false
	for ch := range dc.x1 {
		x, y := float64(dc.x1[ch]), float64(dc.y1[ch])
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			dc.x1[ch], dc.y1[ch] = 0, 0
			reset = true
		}
	}
	return reset
}

// SetCutoff updates the cutoff frequency.
func (dc *DCBlocker) SetCutoff(cutoffHz float32, sampleRate float64) {
	// R = 1 - (2 * PI * cutoff / sampleRate), clamped for stability
	r := 1.0 - (2.0 * math.Pi * float64(cutoffHz) / sampleRate)
	dc.coefficient = float32(math.Max(0.9, math.Min(0.9999, r)))
}
