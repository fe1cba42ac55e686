package analysis

import (
	"math"
)

// MinToneWindow is the smallest window ToneAmplitude analyses.
const MinToneWindow = 256

// toneLobe is the number of bins either side of the tone summed into its
// energy. It covers the Hann main lobe and the strongest sidelobes.
const toneLobe = 4

// ToneAmplitude estimates the amplitude of a sinusoid at freq from the
// tail of signal. It analyses the largest power of two that fits, so
// callers should pass a signal long enough for the filter under test to
// settle.
func ToneAmplitude(signal []float32, sampleRate, freq float64) float64 {
	size := MinToneWindow
	for size*2 <= len(signal) {
		size *= 2
	}
	if len(signal) < size {
		return 0
	}

	tail := signal[len(signal)-size:]
	in := make([]float64, size)
	for i, s := range tail {
		in[i] = float64(s)
	}

	f := NewFFT(size, HannWindow)
	f.Forward(in)
	bin := f.BinForFrequency(freq, sampleRate)
	return f.PowerAmplitude(bin-toneLobe, bin+toneLobe)
}

// ToneLevelDB is ToneAmplitude in dB, floored at -120.
func ToneLevelDB(signal []float32, sampleRate, freq float64) float64 {
	a := ToneAmplitude(signal, sampleRate, freq)
	if a <= 1e-6 {
		return -120
	}
	return 20 * math.Log10(a)
}

// BandEnergy sums the squared magnitudes of the bins between minFreq and
// maxFreq of a spectrum returned by f.Forward.
func (f *FFT) BandEnergy(magnitude []float64, sampleRate, minFreq, maxFreq float64) float64 {
	lo := f.BinForFrequency(minFreq, sampleRate)
	hi := f.BinForFrequency(maxFreq, sampleRate)
	var energy float64
	for k := lo; k <= hi && k < len(magnitude); k++ {
		energy += magnitude[k] * magnitude[k]
	}
	return energy
}

// PeakBin returns the bin with the largest magnitude, skipping DC.
func PeakBin(magnitude []float64) int {
	best := 0
	for k := 1; k < len(magnitude); k++ {
		if best == 0 || magnitude[k] > magnitude[best] {
			best = k
		}
	}
	return best
}
