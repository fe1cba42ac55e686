package distortion

import (
	"math"
	"testing"

	"github.com/justyntemme/retrocall/pkg/rand"
)

var profiles = []struct {
	name    string
	profile Profile
}{
	{"digital", DigitalClip},
	{"smooth", SmoothClip},
	{"analog", AnalogSaturation},
}

func TestShapeZeroAmountIsIdentity(t *testing.T) {
	rng := rand.New(1, rand.StreamEffects)
	for _, tc := range profiles {
		s := NewShaper(tc.profile, 2, 44100, rand.New(7, rand.StreamEffects))
		for i := 0; i < 1000; i++ {
			x := rng.Bipolar32()
			for _, amount := range []float32{0, -0.5} {
				if got := s.Shape(x, amount, i%2); got != x {
					t.Fatalf("%s: Shape(%f, %f) = %f, want input", tc.name, x, amount, got)
				}
			}
		}
	}
}

func TestShapeApproachesIdentity(t *testing.T) {
	// profiles without the DC blocker reduce to the dry signal as amount -> 0
	for _, tc := range profiles[:2] {
		s := NewShaper(tc.profile, 1, 44100, rand.New(3, rand.StreamEffects))
		for _, x := range []float32{-0.9, -0.3, 0, 0.2, 0.7} {
			got := s.Shape(x, 1e-4, 0)
			if math.Abs(float64(got-x)) > 1e-3 {
				t.Errorf("%s: Shape(%f, 1e-4) = %f, want ~%f", tc.name, x, got, x)
			}
		}
	}
}

func TestShapeBounded(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		limit   float64
	}{
		// ceiling + bite + full-scale quantization noise
		{"digital", DigitalClip, 0.8 + 0.02 + 0.01*0.4 + 1e-6},
		// ceiling + cubic term
		{"smooth", SmoothClip, 0.85 + 0.03},
	}

	rng := rand.New(11, rand.StreamEffects)
	for _, tc := range tests {
		s := NewShaper(tc.profile, 1, 44100, rand.New(5, rand.StreamEffects))
		for i := 0; i < 5000; i++ {
			x := rng.Bipolar32() * 4
			got := float64(s.Shape(x, 1, 0))
			if math.Abs(got) > tc.limit {
				t.Fatalf("%s: |Shape(%f, 1)| = %f exceeds %f", tc.name, x, got, tc.limit)
			}
		}
	}
}

func TestDigitalClipLimitsLoudInput(t *testing.T) {
	p := DigitalClip
	p.Bite = 0
	p.QuantNoise = 0
	s := NewShaper(p, 1, 44100, rand.New(1, rand.StreamEffects))

	if got := s.Shape(0.9, 0.5, 0); math.Abs(float64(got)-0.8) > 1e-6 {
		t.Errorf("Shape(0.9, 0.5) = %f, want ceiling 0.8", got)
	}
	// below the ceiling after gain the curve is linear
	if got := s.Shape(0.1, 0.5, 0); math.Abs(float64(got)-0.2) > 1e-6 {
		t.Errorf("Shape(0.1, 0.5) = %f, want 0.2", got)
	}
}

func TestSmoothClipAttenuates(t *testing.T) {
	p := SmoothClip
	p.Cubic = 0
	s := NewShaper(p, 1, 44100, rand.New(1, rand.StreamEffects))

	x := float32(0.3)
	want := 0.85 * math.Tanh(0.3*2.5) * 0.9
	if got := s.Shape(x, 1, 0); math.Abs(float64(got)-want) > 1e-6 {
		t.Errorf("Shape(0.3, 1) = %f, want %f", got, want)
	}
}

func TestAsymmetricAtan(t *testing.T) {
	pos := AsymmetricAtan(0.5, 0.7, 0.6, 1.3)
	neg := AsymmetricAtan(-0.5, 0.7, 0.6, 1.3)

	if math.Abs(pos-0.7*math.Atan(0.5)) > 1e-12 {
		t.Errorf("positive half = %f", pos)
	}
	if math.Abs(neg-0.6*math.Atan(-0.65)) > 1e-12 {
		t.Errorf("negative half = %f", neg)
	}
	if math.Abs(pos+neg) < 1e-3 {
		t.Error("halves should not be symmetric")
	}
}

func TestHardClip(t *testing.T) {
	tests := []struct {
		in, ceiling, want float64
	}{
		{0.5, 0.8, 0.5},
		{1.5, 0.8, 0.8},
		{-1.5, 0.8, -0.8},
		{0, 0.8, 0},
	}
	for _, tc := range tests {
		if got := HardClip(tc.in, tc.ceiling); got != tc.want {
			t.Errorf("HardClip(%f, %f) = %f, want %f", tc.in, tc.ceiling, got, tc.want)
		}
	}
}

func TestAnalogSaturationRemovesDC(t *testing.T) {
	s := NewShaper(AnalogSaturation, 1, 44100, rand.New(9, rand.StreamEffects))

	// a constant input settles to zero behind the DC blocker
	var last float32
	for i := 0; i < 44100; i++ {
		last = s.Shape(0.4, 0.8, 0)
	}
	if math.Abs(float64(last)) > 0.01 {
		t.Errorf("DC after one second = %f, want ~0", last)
	}
}

func TestShapeDeterministicPerSeed(t *testing.T) {
	a := NewShaper(AnalogSaturation, 1, 44100, rand.New(42, rand.StreamEffects))
	b := NewShaper(AnalogSaturation, 1, 44100, rand.New(42, rand.StreamEffects))
	for i := 0; i < 512; i++ {
		x := float32(math.Sin(float64(i) * 0.05))
		if a.Shape(x, 0.6, 0) != b.Shape(x, 0.6, 0) {
			t.Fatalf("sample %d differs between equally seeded shapers", i)
		}
	}
}

func TestCurveString(t *testing.T) {
	if CurveTanh.String() != "tanh" || Curve(99).String() != "unknown" {
		t.Error("unexpected curve names")
	}
}

func TestShapeRestartsDCBlockerAfterIdle(t *testing.T) {
	p := AnalogSaturation
	p.Aging = 0

	s := NewShaper(p, 1, 44100, rand.New(1, rand.StreamEffects))
	for i := 0; i < 4410; i++ {
		s.Shape(0.4, 0.8, 0)
	}
	for i := 0; i < 44100; i++ {
		if got := s.Shape(-0.2, 0, 0); got != -0.2 {
			t.Fatalf("zero amount changed the input to %f", got)
		}
	}

	fresh := NewShaper(p, 1, 44100, rand.New(1, rand.StreamEffects))
	got := s.Shape(0.3, 0.8, 0)
	want := fresh.Shape(0.3, 0.8, 0)
	if got != want {
		t.Errorf("first sample after idle = %f, want %f as from rest", got, want)
	}
}
