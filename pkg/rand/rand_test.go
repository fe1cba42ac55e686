package rand

import (
	"math"
	"testing"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42, StreamEngine)
	b := New(42, StreamEngine)

	for i := 0; i < 1000; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("sequences diverged at %d", i)
		}
	}
}

func TestStreamsDiffer(t *testing.T) {
	a := New(42, StreamEngine)
	b := New(42, StreamEffects)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	if same > 5 {
		t.Errorf("streams look correlated: %d identical draws", same)
	}
}

func TestRanges(t *testing.T) {
	r := New(7, StreamEngine)

	sum := 0.0
	const n = 100000
	for i := 0; i < n; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %f", f)
		}
		b := r.Bipolar()
		if b < -1 || b >= 1 {
			t.Fatalf("Bipolar out of range: %f", b)
		}
		if f32 := r.Float32(); f32 < 0 || f32 >= 1 {
			t.Fatalf("Float32 out of range: %f", f32)
		}
		if b32 := r.Bipolar32(); b32 < -1 || b32 >= 1 {
			t.Fatalf("Bipolar32 out of range: %f", b32)
		}
		u := r.Uniform(0.5, 2.5)
		if u < 0.5 || u >= 2.5 {
			t.Fatalf("Uniform out of range: %f", u)
		}
		if k := r.Intn(5); k < 0 || k >= 5 {
			t.Fatalf("Intn out of range: %d", k)
		}
		sum += f
	}

	mean := sum / n
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Float64 mean = %f, want ~0.5", mean)
	}
}

func TestChance(t *testing.T) {
	r := New(3, StreamEffects)

	if r.Chance(0) {
		t.Error("Chance(0) returned true")
	}

	hits := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if r.Chance(0.25) {
			hits++
		}
	}
	ratio := float64(hits) / n
	if math.Abs(ratio-0.25) > 0.01 {
		t.Errorf("Chance(0.25) hit ratio = %f", ratio)
	}
}
