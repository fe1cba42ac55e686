//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/justyntemme/retrocall/pkg/retrocall"
	"github.com/justyntemme/retrocall/pkg/signal"
)

var errSignal = errors.New("unknown signal, expected silence, tone or talk")

const (
	toneFrequency = 1000
	toneAmplitude = 0.3
	// talk alternates speech-level tone bursts with pauses.
	talkOn  = 2.0
	talkOff = 1.5
)

func simulateCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "signal",
			Aliases: []string{"s"},
			Usage:   "Generated input: silence, tone, talk",
			Value:   "talk",
		},
		&cli.FloatFlag{
			Name:  "duration",
			Usage: "Seconds to simulate",
			Value: 30,
		},
		&cli.FloatFlag{
			Name:  "interval",
			Usage: "Seconds between timeline entries",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "rate",
			Usage: "Sample rate",
			Value: 8000,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
		},
	}
	flags = append(flags, effectFlags()...)
	flags = append(flags, logFlags()...)

	return &cli.Command{
		Name:  "simulate",
		Usage: "Run the signal engine on a generated input and print the status over time",
		Flags: flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			rate := cmd.Int("rate")
			frames := int(cmd.Float("duration") * float64(rate))
			if frames <= 0 {
				return fmt.Errorf("%w: duration %v", errInvalidRange, cmd.Float("duration"))
			}
			interval := max(1, int(cmd.Float("interval")*float64(rate)))

			input, err := generate(cmd.String("signal"), rate, frames)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			p, err := newProcessor(cmd, logger, 1)
			if err != nil {
				return err
			}
			if err = p.Prepare(float64(rate), defaultBlock); err != nil {
				return err
			}

			structured := cmd.String("format") != "console"
			var timeline []any
			next := interval
			processAll(p, [][]float32{input}, defaultBlock, nil, func(done int) {
				for done >= next {
					timeline = append(timeline, timelineEntry(p.Status(), float64(next)/float64(rate), structured))
					next += interval
				}
			})

			return printSimulation(cmd, p, timeline)
		},
	}
}

func generate(kind string, rate, frames int) ([]float32, error) {
	out := make([]float32, frames)
	sr := float64(rate)

	switch kind {
	case "silence":
	case "tone":
		for i := range out {
			out[i] = float32(toneAmplitude * math.Sin(2*math.Pi*toneFrequency*float64(i)/sr))
		}
	case "talk":
		period := talkOn + talkOff
		for i := range out {
			t := float64(i) / sr
			if math.Mod(t, period) < talkOn {
				out[i] = float32(toneAmplitude * math.Sin(2*math.Pi*toneFrequency*t))
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", errSignal, kind)
	}

	return out, nil
}

func timelineEntry(s retrocall.Status, seconds float64, structured bool) any {
	if structured {
		return map[string]any{
			"time":     seconds,
			"strength": s.Strength,
			"bars":     s.Bars,
			"dropout":  s.Dropout,
			"voice":    s.Voice,
			"level_db": s.LevelDB(),
		}
	}

	return fmt.Sprintf("%6.1fs %s %s", seconds, barGlyphs(s.Bars), s)
}

// barGlyphs draws the bars the way a handset shows them.
func barGlyphs(bars int) string {
	glyphs := []rune("▁▂▃▄▅")
	out := make([]rune, signal.MaxBars)
	for i := range out {
		if i < bars {
			out[i] = glyphs[i]
		} else {
			out[i] = '·'
		}
	}
	return string(out)
}

func printSimulation(cmd *cli.Command, p *retrocall.Processor, timeline []any) error {
	formatter, err := format.GetFormatter(cmd.String("format"))
	if err != nil {
		return err
	}

	params := p.Parameters()
	status := p.Status()
	data := &format.Data{
		Object: "simulation",
		Meta: map[string]any{
			"phone":    params.Get(retrocall.ParamPhoneType).String(),
			"quality":  params.Get(retrocall.ParamSignalQuality).String(),
			"signal":   cmd.String("signal"),
			"seed":     p.Seed(),
			"dropouts": status.Dropouts,
			"final":    status.String(),
			"timeline": timeline,
		},
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
