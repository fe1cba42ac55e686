package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer provides utilities for analyzing audio buffers.
type AudioAnalyzer struct {
	ClippingThreshold float32
	DCThreshold       float32
	SilenceThreshold  float32
}

// NewAudioAnalyzer creates a new audio analyzer with default settings.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		ClippingThreshold: 0.99,
		DCThreshold:       0.01,
		SilenceThreshold:  0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float32
	RMS            float32
	DC             float32
	ClippedSamples int
	Silent         bool
	NonFinite      int
	ZeroCrossings  int
}

// Analyze performs comprehensive analysis on an audio buffer.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{Samples: len(buffer)}

	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var lastSample float32

	for i, sample := range buffer {
		s := float64(sample)
		if math.IsNaN(s) || math.IsInf(s, 0) {
			result.NonFinite++
			continue
		}

		absSample := float32(math.Abs(s))
		result.Peak = max(result.Peak, absSample)

		if absSample >= a.ClippingThreshold {
			result.ClippedSamples++
		}

		sum += s
		sumSquares += s * s

		if i > 0 && ((lastSample < 0 && sample >= 0) || (lastSample >= 0 && sample < 0)) {
			result.ZeroCrossings++
		}
		lastSample = sample
	}

	result.RMS = float32(math.Sqrt(sumSquares / float64(len(buffer))))
	result.DC = float32(sum / float64(len(buffer)))
	result.Silent = result.RMS < a.SilenceThreshold

	return result
}

// Merge folds another result into r, as if both buffers were analyzed in one
// pass. ZeroCrossings across the seam are not counted.
func (r *AnalysisResult) Merge(other AnalysisResult) {
	total := r.Samples + other.Samples
	if total == 0 {
		return
	}

	energy := float64(r.RMS)*float64(r.RMS)*float64(r.Samples) +
		float64(other.RMS)*float64(other.RMS)*float64(other.Samples)
	dc := float64(r.DC)*float64(r.Samples) + float64(other.DC)*float64(other.Samples)

	r.RMS = float32(math.Sqrt(energy / float64(total)))
	r.DC = float32(dc / float64(total))
	r.Peak = max(r.Peak, other.Peak)
	r.ClippedSamples += other.ClippedSamples
	r.NonFinite += other.NonFinite
	r.ZeroCrossings += other.ZeroCrossings
	r.Silent = r.Silent && other.Silent
	r.Samples = total
}

// Issues lists anything in the result that points at a broken signal path.
func (a *AudioAnalyzer) Issues(result AnalysisResult, name string) []string {
	var issues []string

	if result.NonFinite > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d non-finite values", name, result.NonFinite))
	}
	if result.ClippedSamples > 0 {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples)", name, result.ClippedSamples))
	}
	if math.Abs(float64(result.DC)) > float64(a.DCThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}
	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: peak exceeds 1.0 (%.3f)", name, result.Peak))
	}

	return issues
}

// CheckBuffer performs basic sanity checks on an audio buffer.
func CheckBuffer(buffer []float32, name string) []string {
	analyzer := NewAudioAnalyzer()
	return analyzer.Issues(analyzer.Analyze(buffer), name)
}
