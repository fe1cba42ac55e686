package ambience

import (
	"math"
	"testing"

	"github.com/justyntemme/retrocall/pkg/rand"
)

const testRate = 48000.0

func newBed(seed int64, env Environment) *Bed {
	b := New(testRate, rand.New(seed, rand.StreamAmbience))
	b.SetEnvironment(env)
	return b
}

func TestOffIsSilent(t *testing.T) {
	b := newBed(1, Off)
	buf := make([]float32, 4096)
	b.Render(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %f, want 0", i, v)
		}
	}
}

func TestMixSkipsWhenInactive(t *testing.T) {
	scratch := make([]float32, 256)
	left := make([]float32, 256)
	right := make([]float32, 256)
	for i := range left {
		left[i] = 0.25
		right[i] = -0.25
	}

	tests := []struct {
		name  string
		env   Environment
		level float32
	}{
		{"off", Off, 1},
		{"zero level", Street, 0},
		{"nan level", Cafe, float32(math.NaN())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBed(3, tt.env)
			if b.Mix([][]float32{left, right}, len(left), tt.level, scratch) {
				t.Fatal("Mix reported work for an inactive bed")
			}
			for i := range left {
				if left[i] != 0.25 || right[i] != -0.25 {
					t.Fatalf("sample %d modified", i)
				}
			}
		})
	}
}

func TestEnvironmentsAudibleAndBounded(t *testing.T) {
	for e := Street; int(e) < NumEnvironments; e++ {
		t.Run(e.String(), func(t *testing.T) {
			b := newBed(11, e)
			buf := make([]float32, int(testRate)*2)
			b.Render(buf)

			var energy float64
			for i, v := range buf {
				f := float64(v)
				if math.IsNaN(f) || math.Abs(f) > 2 {
					t.Fatalf("sample %d out of range: %f", i, v)
				}
				energy += f * f
			}
			rms := math.Sqrt(energy / float64(len(buf)))
			if rms < 1e-3 {
				t.Errorf("rms = %g, bed is inaudible", rms)
			}
		})
	}
}

func TestDeterministicPerSeed(t *testing.T) {
	a := newBed(42, Station)
	b := newBed(42, Station)
	c := newBed(43, Station)

	differs := false
	for i := 0; i < 20000; i++ {
		x, y, z := a.Next(), b.Next(), c.Next()
		if x != y {
			t.Fatalf("sample %d differs for equal seeds", i)
		}
		if x != z {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds rendered identical beds")
	}
}

func TestEventRate(t *testing.T) {
	// Car events fire about twice a second and ring for 30 ms.
	b := newBed(5, Car)
	seconds := 60
	events := 0
	active := false
	for i := 0; i < int(testRate)*seconds; i++ {
		b.Next()
		now := b.event.IsActive()
		if now && !active {
			events++
		}
		active = now
	}
	expected := Car.Profile().Event.Rate * float64(seconds)
	if float64(events) < expected*0.5 || float64(events) > expected*1.5 {
		t.Errorf("events = %d, expected about %.0f", events, expected)
	}
}

func TestMixLevelScales(t *testing.T) {
	n := 512
	scratch := make([]float32, n)

	render := func(level float32) []float32 {
		b := newBed(9, Office)
		out := make([]float32, n)
		if !b.Mix([][]float32{out}, n, level, scratch) {
			t.Fatal("Mix skipped an active bed")
		}
		return out
	}
	full := render(1)
	half := render(0.5)
	for i := range full {
		if d := math.Abs(float64(full[i]*0.5 - half[i])); d > 1e-6 {
			t.Fatalf("sample %d: half level %f, full level %f", i, half[i], full[i])
		}
	}
}

func TestSetEnvironmentClampsUnknown(t *testing.T) {
	b := newBed(1, Street)
	b.SetEnvironment(Environment(99))
	if b.Environment() != Off {
		t.Errorf("environment = %v, want Off", b.Environment())
	}
	if Environment(99).String() != "Unknown" {
		t.Error("unknown environment name")
	}
	if len(Names()) != NumEnvironments {
		t.Error("names length mismatch")
	}
}
