package retrocall

import (
	"math"
	"testing"

	"github.com/justyntemme/retrocall/pkg/framework/bus"
	"github.com/justyntemme/retrocall/pkg/framework/process"
)

const testBlock = 512

func newProcessor(t *testing.T, sampleRate float64, channels int32, setup func(p *Processor)) *Processor {
	t.Helper()
	p := New(nil)
	if err := p.SetBuses(bus.NewConfiguration(channels)); err != nil {
		t.Fatalf("SetBuses: %v", err)
	}
	if setup != nil {
		setup(p)
	}
	if err := p.Prepare(sampleRate, testBlock); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return p
}

func (p *Processor) setPlain(t *testing.T, id uint32, plain float64) {
	t.Helper()
	if err := p.Parameters().SetPlain(id, plain); err != nil {
		t.Fatalf("SetPlain(%d): %v", id, err)
	}
}

// quiet disables every stage that adds signal-independent content.
func (p *Processor) quiet(t *testing.T) {
	p.setPlain(t, ParamNoise, 0)
	p.setPlain(t, ParamInterference, 0)
	p.setPlain(t, ParamCompression, 0)
	p.setPlain(t, ParamDistortion, 0)
}

// run processes in block-sized chunks and returns new output buffers.
func run(p *Processor, in [][]float32, block int) [][]float32 {
	n := len(in[0])
	out := make([][]float32, len(in))
	for ch := range out {
		out[ch] = make([]float32, n)
	}

	ctx := process.NewContext(block, p.Parameters())
	ctx.Input = make([][]float32, len(in))
	ctx.Output = make([][]float32, len(in))
	for from := 0; from < n; from += block {
		to := min(from+block, n)
		for ch := range in {
			ctx.Input[ch] = in[ch][from:to]
			ctx.Output[ch] = out[ch][from:to]
		}
		p.ProcessAudio(ctx)
	}
	return out
}

func sine(freq, amp, sampleRate float64, n int) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return buf
}

func stereo(mono []float32) [][]float32 {
	right := make([]float32, len(mono))
	copy(right, mono)
	return [][]float32{mono, right}
}

func silence(channels, n int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, n)
	}
	return out
}
