package dsp

// Common audio constants used throughout the DSP packages.
const (
	// Gain/Level constants
	MinDB     = -200.0 // Minimum dB value (effectively silence)
	UnityGain = 1.0    // Unity gain (0 dB)

	// Q factor
	DefaultQ = 0.707 // Butterworth response

	// Channel counts
	Mono   = 1
	Stereo = 2

	// Common sample rates
	SampleRate8k   = 8000.0
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0
	SampleRate96k  = 96000.0
	SampleRate192k = 192000.0

	// Buffer sizes
	DefaultBufferSize = 512
	MaxBufferSize     = 8192

	// Phase constants
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966

	// Small values for comparisons
	Epsilon      = 1e-6
	SmallFloat32 = 1e-30

	// Output safety limit
	ClipThreshold = 1.0
)
