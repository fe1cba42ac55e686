package dsp

import (
	"math"
	"testing"
)

func TestBufferOps(t *testing.T) {
	dst := []float32{1, 2, 3}
	Add(dst, []float32{1, 1})
	if dst[0] != 2 || dst[1] != 3 || dst[2] != 3 {
		t.Errorf("Add = %v", dst)
	}

	AddScaled(dst, []float32{2, 2, 2}, 0.5)
	if dst[0] != 3 || dst[2] != 4 {
		t.Errorf("AddScaled = %v", dst)
	}

	Scale(dst, 2)
	if dst[0] != 6 {
		t.Errorf("Scale = %v", dst)
	}

	Clear(dst)
	for _, v := range dst {
		if v != 0 {
			t.Fatalf("Clear left %v", dst)
		}
	}
}

func TestMixDown(t *testing.T) {
	left := []float32{1, 0, 0.5}
	right := []float32{0, 1, 0.5}
	dst := make([]float32, 3)

	MixDown(dst, [][]float32{left, right})
	want := []float32{0.5, 0.5, 0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("stereo sample %d = %f, want %f", i, dst[i], want[i])
		}
	}

	MixDown(dst, [][]float32{left})
	if dst[0] != 1 || dst[1] != 0 {
		t.Errorf("mono mixdown = %v", dst)
	}

	// aliasing the first channel
	MixDown(left, [][]float32{left, right})
	if left[0] != 0.5 || left[1] != 0.5 {
		t.Errorf("aliased mixdown = %v", left)
	}
}

func TestLevels(t *testing.T) {
	buffer := []float32{0.5, -1, 0.5, 0}
	if Peak(buffer) != 1 {
		t.Errorf("Peak = %f, want 1", Peak(buffer))
	}
	if got, want := RMS(buffer), float32(math.Sqrt(1.5/4)); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("RMS = %f, want %f", got, want)
	}
	if RMS(nil) != 0 {
		t.Error("RMS of empty buffer should be 0")
	}
}

func TestSanitize(t *testing.T) {
	buffer := []float32{
		0.25,
		float32(math.NaN()),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		1.5,
		-3,
	}

	bad := Sanitize(buffer)
	if bad != 3 {
		t.Errorf("Sanitize reported %d non-finite samples, want 3", bad)
	}
	want := []float32{0.25, 0, 0, 0, 1, -1}
	for i := range want {
		if buffer[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, buffer[i], want[i])
		}
	}
}

func TestClip(t *testing.T) {
	buffer := []float32{0.9, -0.9, 0.5, float32(math.NaN())}
	Clip(buffer, 0.8)
	want := []float32{0.8, -0.8, 0.5, 0}
	for i := range want {
		if buffer[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, buffer[i], want[i])
		}
	}
}

func TestWrapPhase(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{TwoPi, 0},
		{TwoPi + 0.5, 0.5},
		{-0.5, TwoPi - 0.5},
		{3*TwoPi + 1, 1},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		got := WrapPhase(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapPhase(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= TwoPi {
			t.Errorf("WrapPhase(%v) = %v out of range", tt.in, got)
		}
	}
}
