package degrade

import (
	"math"
	"testing"

	"github.com/justyntemme/retrocall/pkg/rand"
)

func speech(i int) float32 {
	return float32(0.4*math.Sin(float64(i)*0.031) + 0.2*math.Sin(float64(i)*0.17))
}

func TestFullStrengthIsIdentity(t *testing.T) {
	s := New(2, 44100, rand.New(1, rand.StreamEffects))
	for i := 0; i < 44100; i++ {
		s.Begin(1, false)
		for ch := 0; ch < 2; ch++ {
			x := speech(i + ch)
			if y := s.Process(x, ch); y != x {
				t.Fatalf("sample %d ch %d changed at full strength: %f -> %f", i, ch, x, y)
			}
		}
	}
}

func TestDropoutMutes(t *testing.T) {
	s := New(1, 44100, rand.New(2, rand.StreamEffects))
	for i := 0; i < 4410; i++ {
		s.Begin(0.9, true)
		s.Process(0.5, 0)
	}
	if math.Abs(float64(s.Gain())-MuteFloor) > 1e-3 {
		t.Errorf("gain during dropout = %f, want %f", s.Gain(), MuteFloor)
	}

	// recovery glides back up
	prev := s.Gain()
	for i := 0; i < 4410; i++ {
		s.Begin(0.9, false)
		if g := s.Gain(); g < prev {
			t.Fatalf("gain fell during recovery at %d", i)
		}
		prev = s.Gain()
	}
	if prev != 1 {
		t.Errorf("gain after recovery = %f", prev)
	}
}

func TestWeakSignalDegrades(t *testing.T) {
	s := New(1, 44100, rand.New(3, rand.StreamEffects))

	var diff float64
	shortMutes := 0
	wasMuted := false
	for i := 0; i < 10*44100; i++ {
		s.Begin(0.1, false)
		x := speech(i)
		y := s.Process(x, 0)
		if math.IsNaN(float64(y)) {
			t.Fatal("NaN output")
		}
		diff += math.Abs(float64(y - x))
		if s.Muted() && !wasMuted {
			shortMutes++
		}
		wasMuted = s.Muted()
	}

	if diff == 0 {
		t.Fatal("weak signal left the audio untouched")
	}
	// (0.5-0.1)*0.0004 per sample waits ~0.14 s between mutes of ~35 ms,
	// so about 57 mutes in ten seconds
	if shortMutes < 25 || shortMutes > 100 {
		t.Errorf("%d short mutes in 10 s", shortMutes)
	}
}

func TestNoiseFloorScalesWithStrength(t *testing.T) {
	floor := func(strength float64) float64 {
		s := New(1, 44100, rand.New(4, rand.StreamEffects))
		var sum float64
		for i := 0; i < 44100; i++ {
			s.Begin(strength, false)
			y := s.Process(0, 0)
			sum += float64(y) * float64(y)
		}
		return math.Sqrt(sum / 44100)
	}

	good, fair, poor := floor(0.85), floor(0.7), floor(0.55)
	if good != 0 {
		t.Errorf("noise floor above 0.8 = %g", good)
	}
	if !(poor > fair && fair > 0) {
		t.Errorf("noise floor not increasing as strength drops: fair %g poor %g", fair, poor)
	}
	// uniform noise of amplitude a has RMS a/sqrt(3)
	want := NoiseScale * (NoiseStrength - 0.7) / math.Sqrt(3)
	if math.Abs(fair-want) > 0.1*want {
		t.Errorf("fair noise RMS %g, want ~%g", fair, want)
	}
}

func TestCrackleOnlyWhenWeak(t *testing.T) {
	count := func(strength float64, dropout bool) int {
		s := New(1, 44100, rand.New(5, rand.StreamEffects))
		n := 0
		for i := 0; i < 44100; i++ {
			s.Begin(strength, dropout)
			if s.crackle > 0 {
				n++
			}
		}
		return n
	}
	if count(0.6, false) != 0 {
		t.Error("crackle armed above 0.5")
	}
	if count(0.3, false) == 0 || count(0.9, true) == 0 {
		t.Error("crackle not armed for weak signal or dropout")
	}
}

func TestResetRestoresUnity(t *testing.T) {
	s := New(1, 48000, rand.New(6, rand.StreamEffects))
	for i := 0; i < 1000; i++ {
		s.Begin(0, true)
	}
	s.Reset()
	s.Begin(1, false)
	if s.Gain() != 1 || s.Process(0.25, 0) != 0.25 {
		t.Error("Reset did not restore unity")
	}
}
