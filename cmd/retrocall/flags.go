//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/justyntemme/retrocall/pkg/framework/bus"
	"github.com/justyntemme/retrocall/pkg/framework/debug"
	"github.com/justyntemme/retrocall/pkg/framework/process"
	"github.com/justyntemme/retrocall/pkg/log"
	"github.com/justyntemme/retrocall/pkg/phone"
	"github.com/justyntemme/retrocall/pkg/retrocall"
)

const defaultBlock = 512

var errSetSyntax = errors.New("expected name=value")

// effectFlags configure a processor. Parameter values are parsed by the
// parameters themselves, so every label the surface shows is accepted.
func effectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "phone",
			Aliases: []string{"p"},
			Usage:   "Phone archetype: classic, modern, vintage (loads its preset)",
		},
		&cli.StringFlag{
			Name:    "quality",
			Aliases: []string{"q"},
			Usage:   "Signal quality: perfect, good, fair, poor, breakingup, auto",
		},
		&cli.StringFlag{
			Name:  "ambience",
			Usage: "Background: off, street, office, cafe, station, car",
		},
		&cli.FloatFlag{
			Name:  "ambience-level",
			Usage: "Background level in percent",
		},
		&cli.StringFlag{
			Name:  "position",
			Usage: "Call position: center, leftear, rightear, speakernear, speakerfar, bluetoothleft, bluetoothright",
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "Set any parameter by name, e.g. --set \"Noise Level=20\" (repeatable)",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "Seed of every random stream",
			Value: retrocall.DefaultSeed,
		},
		&cli.StringFlag{
			Name:  "state",
			Usage: "Load parameters and seed from a state file before applying flags",
		},
	}
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "warn",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Write JSON logs to this rotating file instead of stderr",
		},
	}
}

func newLogger(cmd *cli.Command) (*log.Logger, error) {
	return log.New(log.Options{
		Level: cmd.String("log-level"),
		File:  cmd.String("log-file"),
	})
}

// newProcessor builds a processor for channels and applies the effect
// flags. It is not prepared yet.
func newProcessor(cmd *cli.Command, l *log.Logger, channels int) (*retrocall.Processor, error) {
	p := retrocall.New(l)
	if err := p.SetBuses(bus.NewConfiguration(int32(channels))); err != nil {
		return nil, err
	}

	if path := cmd.String("state"); path != "" {
		f, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified state files
		if err != nil {
			return nil, fmt.Errorf("opening state: %w", err)
		}
		err = p.LoadState(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading state %s: %w", path, err)
		}
	}

	if cmd.IsSet("phone") {
		a, err := phone.Parse(cmd.String("phone"))
		if err != nil {
			return nil, err
		}
		if err = p.LoadPreset(a); err != nil {
			return nil, err
		}
	}

	params := p.Parameters()
	named := []struct{ flag, param string }{
		{"quality", "Signal Quality"},
		{"ambience", "Ambience"},
		{"position", "Call Position"},
	}
	for _, n := range named {
		if !cmd.IsSet(n.flag) {
			continue
		}
		if err := params.SetString(n.param, cmd.String(n.flag)); err != nil {
			return nil, fmt.Errorf("--%s: %w", n.flag, err)
		}
	}
	if cmd.IsSet("ambience-level") {
		if err := params.SetPlain(retrocall.ParamAmbienceLevel, cmd.Float("ambience-level")); err != nil {
			return nil, err
		}
	}
	for _, kv := range cmd.StringSlice("set") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: %w", kv, errSetSyntax)
		}
		if err := params.SetString(name, value); err != nil {
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
	}

	if cmd.IsSet("seed") || cmd.String("state") == "" {
		p.SetSeed(cmd.Int64("seed"))
	}

	return p, nil
}

// processAll runs in through p block by block and returns the output.
// onBlock, when set, is called after each block with the frame count so
// far.
func processAll(
	p *retrocall.Processor,
	in [][]float32,
	block int,
	prof *debug.BlockProfiler,
	onBlock func(done int),
) [][]float32 {
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

		if prof != nil {
			done := prof.Block()
			p.ProcessAudio(ctx)
			done()
		} else {
			p.ProcessAudio(ctx)
		}

		if onBlock != nil {
			onBlock(to)
		}
	}
	return out
}
