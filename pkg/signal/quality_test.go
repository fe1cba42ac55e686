package signal

import (
	"testing"
)

func TestQualityLevels(t *testing.T) {
	tests := []struct {
		q      Quality
		level  float64
		forced bool
	}{
		{Perfect, 1.0, true},
		{Good, 0.85, true},
		{Fair, 0.7, true},
		{Poor, 0.55, true},
		{BreakingUp, 0.4, true},
		{Auto, 0, false},
		{Quality(17), 0, false},
	}
	for _, tc := range tests {
		level, forced := tc.q.Level()
		if level != tc.level || forced != tc.forced {
			t.Errorf("%s: Level() = %f, %v", tc.q, level, forced)
		}
	}
	if BreakingUp.String() != "Breaking Up" || len(QualityNames()) != NumQualities {
		t.Error("unexpected quality names")
	}
}

func TestOverrideSteadyModes(t *testing.T) {
	o := NewOverride(44100, Perfect)
	for i := 0; i < 1000; i++ {
		eff, drop := o.Apply(Perfect, 0.3, true)
		if eff != 1.0 || drop {
			t.Fatalf("Perfect gave %f, %v", eff, drop)
		}
	}
	if !o.Forced() {
		t.Error("Perfect should be forced")
	}

	o = NewOverride(44100, Auto)
	for _, s := range []float64{0.1, 0.5, 0.93} {
		eff, drop := o.Apply(Auto, s, true)
		if eff != s || !drop {
			t.Errorf("Auto gave %f, %v for %f", eff, drop, s)
		}
	}
}

func TestOverrideGlides(t *testing.T) {
	o := NewOverride(44100, Auto)

	first, _ := o.Apply(Perfect, 0.2, false)
	if first <= 0.2 || first >= 0.3 {
		t.Errorf("first sample after switching = %f, want a small step from 0.2", first)
	}

	prev := first
	for i := 0; i < 44100; i++ {
		eff, _ := o.Apply(Perfect, 0.2, false)
		if eff < prev-1e-12 {
			t.Fatalf("glide not monotonic at %d", i)
		}
		prev = eff
	}
	if prev != 1.0 {
		t.Errorf("glide settled at %f", prev)
	}

	// forced to forced glides between levels
	o.Reset(Good)
	eff, _ := o.Apply(Poor, 0.9, false)
	if eff >= 0.85 || eff <= 0.55 {
		t.Errorf("Good to Poor first step = %f", eff)
	}
}
