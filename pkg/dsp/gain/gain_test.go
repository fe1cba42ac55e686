package gain

import (
	"math"
	"testing"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		linear float64
		db     float64
	}{
		{1.0, 0.0},
		{0.5, -6.0206},
		{2.0, 6.0206},
		{0.1, -20.0},
	}

	for _, tc := range tests {
		if got := LinearToDb(tc.linear); math.Abs(got-tc.db) > 1e-3 {
			t.Errorf("LinearToDb(%f) = %f, want %f", tc.linear, got, tc.db)
		}
		if got := DbToLinear(tc.db); math.Abs(got-tc.linear) > 1e-3 {
			t.Errorf("DbToLinear(%f) = %f, want %f", tc.db, got, tc.linear)
		}
	}

	if LinearToDb(0) != MinDB || LinearToDb(-1) != MinDB || LinearToDb(math.NaN()) != MinDB {
		t.Error("non-positive input should return MinDB")
	}
	if DbToLinear(MinDB) != 0 {
		t.Error("MinDB should map to silence")
	}
	if got := DbToLinear32(-6.0206); math.Abs(float64(got)-0.5) > 1e-4 {
		t.Errorf("DbToLinear32 = %f", got)
	}
	if got := LinearToDb32(0.1); math.Abs(float64(got)+20) > 1e-3 {
		t.Errorf("LinearToDb32 = %f", got)
	}
}

func TestFade(t *testing.T) {
	buf := []float32{1, 1, 1, 1, 1}
	Fade(buf, 0, 1)
	want := []float32{0, 0.25, 0.5, 0.75, 1}
	for i := range buf {
		if math.Abs(float64(buf[i]-want[i])) > 1e-6 {
			t.Errorf("Fade[%d] = %f, want %f", i, buf[i], want[i])
		}
	}

	one := []float32{2}
	Fade(one, 0.5, 1)
	if one[0] != 1 {
		t.Errorf("single sample fade = %f", one[0])
	}
}

func TestCrossfade(t *testing.T) {
	wet := []float32{1, 1, 1}
	dry := []float32{0, 0, 0}
	Crossfade(wet, dry, 1, 0)
	want := []float32{1, 0.5, 0}
	for i := range wet {
		if math.Abs(float64(wet[i]-want[i])) > 1e-6 {
			t.Errorf("Crossfade[%d] = %f, want %f", i, wet[i], want[i])
		}
	}

	// a constant share of 1 keeps wet
	wet = []float32{0.3, -0.7}
	Crossfade(wet, []float32{9, 9}, 1, 1)
	if math.Abs(float64(wet[0])-0.3) > 1e-5 || math.Abs(float64(wet[1])+0.7) > 1e-5 {
		t.Errorf("unit crossfade changed wet: %v", wet)
	}
}

func TestApplyBuffer(t *testing.T) {
	buf := []float32{0.5, -0.25}
	ApplyBuffer(buf, 2)
	if buf[0] != 1 || buf[1] != -0.5 {
		t.Errorf("ApplyBuffer = %v", buf)
	}
}
