//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/justyntemme/retrocall/pkg/dsp/analysis"
	"github.com/justyntemme/retrocall/pkg/dsp/filter"
	"github.com/justyntemme/retrocall/pkg/phone"
)

var errInvalidRange = errors.New("value out of range")

// probeAmplitude keeps the measured tone well inside full scale.
const probeAmplitude = 0.5

func responseCommand() *cli.Command {
	return &cli.Command{
		Name:  "response",
		Usage: "Print the low and high cut response of every preset index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "phone",
				Aliases: []string{"p"},
				Usage:   "Phone archetype, all when empty",
			},
			&cli.IntFlag{
				Name:  "rate",
				Usage: "Sample rate",
				Value: 44100,
			},
			&cli.FloatSliceFlag{
				Name:  "probe",
				Usage: "Probe frequencies in Hz",
				Value: []float64{50, 100, 300, 1000, 3000, 4000, 8000},
			},
			&cli.BoolFlag{
				Name:  "analytic",
				Usage: "Evaluate the filter transfer function instead of measuring a tone",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			rate := float64(cmd.Int("rate"))
			if rate <= 0 {
				return fmt.Errorf("%w: rate %v", errInvalidRange, rate)
			}

			archetypes := make([]phone.Archetype, 0, phone.NumArchetypes)
			if name := cmd.String("phone"); name != "" {
				a, err := phone.Parse(name)
				if err != nil {
					return err
				}
				archetypes = append(archetypes, a)
			} else {
				for a := range phone.NumArchetypes {
					archetypes = append(archetypes, phone.Archetype(a))
				}
			}

			m := &meter{rate: rate, probes: cmd.FloatSlice("probe"), analytic: cmd.Bool("analytic")}
			data := make([]*format.Data, 0, len(archetypes))
			for _, a := range archetypes {
				profile := phone.Lookup(a)
				data = append(data, &format.Data{
					Object: profile.Name,
					Meta: map[string]any{
						"low_cut":  m.table(filter.LowCut, profile.LowCutHz),
						"high_cut": m.table(filter.HighCut, profile.HighCutHz),
					},
				})
			}

			formatter, err := format.GetFormatter(cmd.String("format"))
			if err != nil {
				return err
			}

			return formatter.PrintAll(data, os.Stdout)
		},
	}
}

type meter struct {
	rate     float64
	probes   []float64
	analytic bool
}

// table returns one line per preset index.
func (m *meter) table(kind filter.Kind, corner func(int) float64) map[string]any {
	out := make(map[string]any, phone.CutPresets)
	for index := 1; index <= phone.CutPresets; index++ {
		hz := corner(index)
		cut := filter.NewCut(kind, 1)
		cut.Prepare(m.rate)
		cut.SetCorner(hz)

		cells := make([]string, 0, len(m.probes))
		for _, probe := range m.probes {
			cells = append(cells, fmt.Sprintf("%gHz %+.1fdB", probe, m.level(cut, probe)))
		}
		out[fmt.Sprintf("%d (%g Hz)", index, hz)] = strings.Join(cells, ", ")
	}
	return out
}

// level returns the gain of cut at freq in dB.
func (m *meter) level(cut *filter.Cut, freq float64) float64 {
	if m.analytic || freq >= m.rate/2 {
		return cut.MagnitudeDB(freq)
	}

	// one second covers the settling time of every corner
	tone := make([]float32, int(m.rate))
	for i := range tone {
		tone[i] = float32(probeAmplitude * math.Sin(2*math.Pi*freq*float64(i)/m.rate))
	}
	ref := analysis.ToneLevelDB(tone, m.rate, freq)

	cut.Reset()
	cut.Process(tone, 0)

	return analysis.ToneLevelDB(tone, m.rate, freq) - ref
}
