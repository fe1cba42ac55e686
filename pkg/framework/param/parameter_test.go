package param

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestParameterClamping(t *testing.T) {
	p := New(0, "Level").Range(-10, 10).Default(0).Build()

	tests := []struct {
		name  string
		set   float64
		plain float64
	}{
		{"InRange", 0.75, 5},
		{"AboveOne", 3, 10},
		{"BelowZero", -1, -10},
		{"NaN", math.NaN(), -10},
		{"PositiveInf", math.Inf(1), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.SetValue(tt.set)
			if got := p.GetPlainValue(); math.Abs(got-tt.plain) > 1e-9 {
				t.Errorf("plain = %f, want %f", got, tt.plain)
			}
		})
	}

	p.SetPlainValue(1e6)
	if got := p.GetPlainValue(); got != 10 {
		t.Errorf("SetPlainValue(1e6) gave %f, want 10", got)
	}
}

func TestParameterDiscreteRounding(t *testing.T) {
	p := Choice(1, "Low Cut", "Off", "1", "2", "3", "4").Build()

	tests := []struct {
		plain float64
		index int
	}{
		{0, 0},
		{1.4, 1},
		{1.6, 2},
		{3.49, 3},
		{7, 4},
		{-2, 0},
	}

	for _, tt := range tests {
		p.SetPlainValue(tt.plain)
		if got := p.Index(); got != tt.index {
			t.Errorf("SetPlainValue(%f) index = %d, want %d", tt.plain, got, tt.index)
		}
		if got := p.GetPlainValue(); got != float64(tt.index) {
			t.Errorf("SetPlainValue(%f) plain = %f, want exact step %d", tt.plain, got, tt.index)
		}
	}

	p.SetIndex(9)
	if p.Index() != 4 {
		t.Errorf("SetIndex(9) = %d, want 4", p.Index())
	}
}

func TestParameterReset(t *testing.T) {
	p := PercentParameter(2, "Noise", 30).Build()
	p.SetPlainValue(90)
	p.Reset()
	if got := p.GetPlainValue(); math.Abs(got-30) > 1e-9 {
		t.Errorf("Reset() gave %f, want 30", got)
	}
}

func TestParameterConcurrentAccess(t *testing.T) {
	p := PercentParameter(2, "Noise", 0).Build()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				p.SetValue(float64((i+w)%11) / 10)
			}
		}(w)
	}
	for i := 0; i < 1000; i++ {
		if v := p.GetValue(); v < 0 || v > 1 {
			t.Fatalf("torn read outside range: %f", v)
		}
	}
	wg.Wait()
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	low := Choice(1, "Low Cut", "Off", "A", "B").ShortName("LoCut").Build()
	dist := PercentParameter(3, "Distortion", 0).Build()

	if err := r.Add(low, dist); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Add(PercentParameter(3, "Other", 0).Build()); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate Add error = %v, want ErrDuplicateID", err)
	}

	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	if r.GetByIndex(0) != low || r.GetByIndex(1) != dist || r.GetByIndex(2) != nil {
		t.Error("GetByIndex should follow insertion order")
	}
	if r.GetByName("locut") != low || r.GetByName(" distortion ") != dist {
		t.Error("GetByName should match names and short names case-insensitively")
	}

	if err := r.SetString("Low Cut", "b"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if low.Index() != 2 {
		t.Errorf("after SetString index = %d, want 2", low.Index())
	}
	if err := r.SetString("Missing", "1"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetString(Missing) error = %v, want ErrUnknownParameter", err)
	}
	if err := r.SetPlain(99, 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetPlain(99) error = %v, want ErrUnknownParameter", err)
	}

	r.ResetAll()
	if low.Index() != 0 {
		t.Errorf("ResetAll left index %d", low.Index())
	}
}
