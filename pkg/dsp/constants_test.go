package dsp

import (
	"math"
	"testing"
)

func TestPhaseConstants(t *testing.T) {
	if math.Abs(TwoPi-2*math.Pi) > 1e-15 {
		t.Errorf("TwoPi = %v", TwoPi)
	}
	if math.Abs(Pi-math.Pi) > 1e-15 {
		t.Errorf("Pi = %v", Pi)
	}
	if math.Abs(HalfPi-math.Pi/2) > 1e-15 {
		t.Errorf("HalfPi = %v", HalfPi)
	}
}

func TestSampleRateOrder(t *testing.T) {
	rates := []float64{SampleRate8k, SampleRate44k1, SampleRate48k, SampleRate96k, SampleRate192k}
	for i := 1; i < len(rates); i++ {
		if rates[i] <= rates[i-1] {
			t.Errorf("sample rates not ascending at %d: %v", i, rates)
		}
	}
}
