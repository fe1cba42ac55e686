package oscillator

import (
	"math"
	"testing"

	"github.com/justyntemme/retrocall/pkg/dsp"
)

func TestPhaseStaysWrapped(t *testing.T) {
	var p Phase
	for i := 0; i < 1_000_000; i++ {
		v := p.Advance(0.0371)
		if v < 0 || v >= dsp.TwoPi {
			t.Fatalf("phase %f escaped [0, 2π) at step %d", v, i)
		}
	}

	p.Set(-1)
	if math.Abs(p.Value()-(dsp.TwoPi-1)) > 1e-12 {
		t.Errorf("Set(-1) = %f", p.Value())
	}
	p.Advance(-dsp.TwoPi * 3)
	if p.Value() < 0 || p.Value() >= dsp.TwoPi {
		t.Errorf("negative advance left %f", p.Value())
	}
}

func TestPhaseSanitize(t *testing.T) {
	var p Phase
	p.value = math.NaN()
	if !p.Sanitize() || p.Value() != 0 {
		t.Error("NaN phase should be zeroed")
	}
	if p.Sanitize() {
		t.Error("finite phase reported as non-finite")
	}
}

func TestOscillatorSine(t *testing.T) {
	sr := 48000.0
	o := New(sr)
	o.SetFrequency(1000)

	buf := make([]float32, 48)
	o.ProcessSine(buf)
	for i, s := range buf {
		want := math.Sin(2 * math.Pi * 1000 * float64(i) / sr)
		if math.Abs(float64(s)-want) > 1e-5 {
			t.Fatalf("sample %d = %f, want %f", i, s, want)
		}
	}
	// exactly one cycle
	if o.Cycle() > 1e-9 && o.Cycle() < 1-1e-9 {
		t.Errorf("phase after one cycle = %f", o.Cycle())
	}
}

func TestOscillatorPulse(t *testing.T) {
	o := New(1000)
	o.SetFrequency(10) // 100 samples per cycle
	high := 0
	for i := 0; i < 1000; i++ {
		if o.Pulse(0.25) == 1 {
			high++
		}
	}
	if high < 240 || high > 260 {
		t.Errorf("pulse high for %d of 1000 samples, want ~250", high)
	}
}

func TestOscillatorSampleRate(t *testing.T) {
	o := New(44100)
	o.SetFrequency(217)
	o.SetSampleRate(48000)
	if o.Frequency() != 217 || math.Abs(o.phaseInc-217.0/48000) > 1e-15 {
		t.Errorf("increment %f after SetSampleRate", o.phaseInc)
	}
	o.SetPhase(2.25)
	if o.Cycle() != 0.25 {
		t.Errorf("SetPhase wrapped to %f", o.Cycle())
	}
	o.Reset()
	if o.Cycle() != 0 {
		t.Error("Reset should zero the phase")
	}
}
