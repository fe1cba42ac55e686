// Package analysis provides measurement tools used by tests, the status
// meters and the command line: FFT magnitude spectra on gonum's real FFT,
// tone amplitude and band energy estimates, and a sliding RMS meter.
//
// Example usage:
//
//	amp := analysis.ToneAmplitude(rendered, 44100, 1000)
//	fmt.Printf("1 kHz at %.2f dB\n", gain.LinearToDb(amp))
package analysis
