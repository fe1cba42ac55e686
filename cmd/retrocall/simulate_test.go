package main

import (
	"errors"
	"math"
	"testing"

	"github.com/justyntemme/retrocall/pkg/dsp/filter"
	"github.com/justyntemme/retrocall/pkg/retrocall"
)

func TestGenerate(t *testing.T) {
	const rate = 8000

	silent, err := generate("silence", rate, rate)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range silent {
		if s != 0 {
			t.Fatalf("silence[%d] = %v", i, s)
		}
	}

	talk, err := generate("talk", rate, 4*rate)
	if err != nil {
		t.Fatal(err)
	}
	// 2.5 s falls inside the first pause
	pause := int(2.5 * rate)
	for i := pause; i < pause+100; i++ {
		if talk[i] != 0 {
			t.Fatalf("talk[%d] = %v during pause", i, talk[i])
		}
	}
	var peak float32
	for _, s := range talk[:2*rate] {
		peak = max(peak, s)
	}
	if math.Abs(float64(peak)-toneAmplitude) > 0.01 {
		t.Errorf("talk peak = %v, want %v", peak, toneAmplitude)
	}

	if _, err = generate("music", rate, rate); !errors.Is(err, errSignal) {
		t.Errorf("unknown signal error = %v", err)
	}
}

func TestBarGlyphs(t *testing.T) {
	if got := barGlyphs(0); got != "·····" {
		t.Errorf("barGlyphs(0) = %q", got)
	}
	if got := barGlyphs(3); got != "▁▂▃··" {
		t.Errorf("barGlyphs(3) = %q", got)
	}
	if got := barGlyphs(5); got != "▁▂▃▄▅" {
		t.Errorf("barGlyphs(5) = %q", got)
	}
}

func TestMeterMatchesAnalytic(t *testing.T) {
	m := &meter{rate: 44100, probes: []float64{1000}}
	cut := filter.NewCut(filter.LowCut, 1)
	cut.Prepare(m.rate)
	cut.SetCorner(300)

	for _, freq := range []float64{100, 1000, 3000} {
		measured := m.level(cut, freq)
		analytic := cut.MagnitudeDB(freq)
		if math.Abs(measured-analytic) > 1 {
			t.Errorf("%v Hz: measured %.2f dB, analytic %.2f dB", freq, measured, analytic)
		}
	}
}

func TestDescribe(t *testing.T) {
	p := retrocall.New(nil)

	bars := describe(p.Parameters().Get(retrocall.ParamBars))
	if bars["flags"] != "read-only" {
		t.Errorf("bars flags = %v", bars["flags"])
	}

	phoneType := describe(p.Parameters().Get(retrocall.ParamPhoneType))
	if phoneType["options"] != "Classic, Modern, Vintage" {
		t.Errorf("phone options = %v", phoneType["options"])
	}
	if _, ok := phoneType["range"]; ok {
		t.Error("list parameter should not report a range")
	}

	noise := describe(p.Parameters().Get(retrocall.ParamNoise))
	if noise["range"] != "0..100 %" {
		t.Errorf("noise range = %v", noise["range"])
	}
	if noise["id"] != retrocall.ParamNoise {
		t.Errorf("noise id = %v", noise["id"])
	}
}

func TestCheck(t *testing.T) {
	clean := [][]float32{{0.5, -0.5, 0.25, -0.25}, {0.1, -0.1, 0.1, -0.1}}
	if issues := check(clean); len(issues) != 0 {
		t.Errorf("clean render reported %v", issues)
	}

	hot := [][]float32{{1, -1, 1, -1}}
	if issues := check(hot); len(issues) != 1 {
		t.Errorf("full-scale render reported %v, want one clipping issue", issues)
	}
}
