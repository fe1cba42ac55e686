package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// WindowFunc represents different window functions
type WindowFunc int

const (
	// RectangularWindow applies no tapering
	RectangularWindow WindowFunc = iota
	// HannWindow is the default analysis window
	HannWindow
	// HammingWindow trades sidelobe decay for a lower first sidelobe
	HammingWindow
	// BlackmanWindow has the lowest sidelobes of the set
	BlackmanWindow
)

// FFT computes windowed magnitude spectra of real signals. Buffers are
// allocated once in NewFFT.
type FFT struct {
	size      int
	window    []float64
	windowSum float64
	windowSq  float64

	fft       *fourier.FFT
	in        []float64
	coeffs    []complex128
	magnitude []float64
}

// NewFFT creates an FFT of the given size. Any size works; powers of two
// are fastest.
func NewFFT(size int, window WindowFunc) *FFT {
	f := &FFT{
		size:      size,
		window:    makeWindow(size, window),
		fft:       fourier.NewFFT(size),
		in:        make([]float64, size),
		coeffs:    make([]complex128, size/2+1),
		magnitude: make([]float64, size/2+1),
	}
	for _, w := range f.window {
		f.windowSum += w
		f.windowSq += w * w
	}
	return f
}

func makeWindow(size int, kind WindowFunc) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w
	}
	n := float64(size - 1)
	for i := range w {
		x := 2 * math.Pi * float64(i) / n
		switch kind {
		case HannWindow:
			w[i] = 0.5 * (1 - math.Cos(x))
		case HammingWindow:
			w[i] = 0.54 - 0.46*math.Cos(x)
		case BlackmanWindow:
			w[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		default:
			w[i] = 1
		}
	}
	return w
}

// Size returns the transform length.
func (f *FFT) Size() int {
	return f.size
}

// Forward windows input (zero padded or truncated to Size) and returns the
// magnitude of bins 0..Size/2. The returned slice is reused by the next
// call.
func (f *FFT) Forward(input []float64) []float64 {
	n := copy(f.in, input)
	clear(f.in[n:])
	for i := range f.in {
		f.in[i] *= f.window[i]
	}

	f.coeffs = f.fft.Coefficients(f.coeffs, f.in)
	for i, c := range f.coeffs {
		f.magnitude[i] = math.Hypot(real(c), imag(c))
	}
	return f.magnitude
}

// Amplitude converts a bin magnitude to the amplitude of a sine centred
// on that bin.
func (f *FFT) Amplitude(magnitude float64) float64 {
	if f.windowSum == 0 {
		return 0
	}
	return 2 * magnitude / f.windowSum
}

// PowerAmplitude estimates the amplitude of a sine whose energy is spread
// over bins [lo, hi] of the last Forward call.
func (f *FFT) PowerAmplitude(lo, hi int) float64 {
	lo = max(lo, 0)
	hi = min(hi, len(f.magnitude)-1)
	var energy float64
	for k := lo; k <= hi; k++ {
		energy += f.magnitude[k] * f.magnitude[k]
	}
	if f.windowSq == 0 {
		return 0
	}
	return 2 * math.Sqrt(energy/(float64(f.size)*f.windowSq))
}

// MagnitudeDB returns the last spectrum in dB relative to a full-scale
// centred sine, floored at -120 dB.
func (f *FFT) MagnitudeDB(dst []float64) []float64 {
	dst = append(dst[:0], f.magnitude...)
	for i, m := range dst {
		a := f.Amplitude(m)
		if a > 1e-6 {
			dst[i] = 20 * math.Log10(a)
		} else {
			dst[i] = -120
		}
	}
	return dst
}

// FrequencyBin returns the centre frequency of bin.
func (f *FFT) FrequencyBin(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(f.size)
}

// BinForFrequency returns the bin nearest to freq.
func (f *FFT) BinForFrequency(freq, sampleRate float64) int {
	bin := int(math.Round(freq * float64(f.size) / sampleRate))
	return max(0, min(bin, len(f.magnitude)-1))
}
