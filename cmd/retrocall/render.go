//nolint:wrapcheck
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/retrocall/pkg/framework/debug"
	"github.com/justyntemme/retrocall/pkg/integration/ffmpeg"
	"github.com/justyntemme/retrocall/pkg/log"
)

var (
	errRenderArgs  = errors.New("expected at least one argument: file path")
	errEmptyInput  = errors.New("no audio decoded")
	errChannels    = errors.New("channels must be 1 or 2")
	errOutputIsWav = errors.New("a .wav output needs exactly one input")
)

// outputSuffix is appended to the input name when output is a directory.
const outputSuffix = ".phone.wav"

type renderOptions struct {
	rate     int
	channels int
	block    int
	profile  bool
}

func renderCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory, or a .wav path when rendering a single file",
			Value:   ".",
		},
		&cli.IntFlag{
			Name:  "rate",
			Usage: "Processing sample rate",
			Value: 44100,
		},
		&cli.IntFlag{
			Name:  "channels",
			Usage: "Processing channels: 1 or 2",
			Value: 2,
		},
		&cli.IntFlag{
			Name:  "block",
			Usage: "Block size in samples",
			Value: defaultBlock,
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Files rendered concurrently",
			Value:   runtime.NumCPU(),
		},
		&cli.BoolFlag{
			Name:  "profile",
			Usage: "Print block timing against the real-time budget",
		},
	}
	flags = append(flags, effectFlags()...)
	flags = append(flags, logFlags()...)

	return &cli.Command{
		Name:      "render",
		Usage:     "Decode audio files with ffmpeg, run them through the phone effect and write WAV",
		ArgsUsage: "<file>...",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return errRenderArgs
			}

			opts := renderOptions{
				rate:     cmd.Int("rate"),
				channels: cmd.Int("channels"),
				block:    cmd.Int("block"),
				profile:  cmd.Bool("profile"),
			}
			if opts.channels != 1 && opts.channels != 2 {
				return fmt.Errorf("%w: %d", errChannels, opts.channels)
			}

			output := cmd.String("output")
			isWav := strings.EqualFold(filepath.Ext(output), ".wav")
			if isWav && cmd.NArg() > 1 {
				return errOutputIsWav
			}

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			var (
				mu  sync.Mutex
				grp errgroup.Group
			)
			grp.SetLimit(max(1, cmd.Int("jobs")))

			for _, input := range cmd.Args().Slice() {
				dst := output
				if !isWav {
					stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
					dst = filepath.Join(output, stem+outputSuffix)
				}

				grp.Go(func() error {
					report, err := renderFile(ctx, cmd, logger.With("file", filepath.Base(input)), input, dst, opts)
					if err != nil {
						return fmt.Errorf("%s: %w", input, err)
					}

					mu.Lock()
					defer mu.Unlock()
					fmt.Fprint(os.Stdout, report)

					return nil
				})
			}

			return grp.Wait()
		},
	}
}

// renderFile renders one file and returns the lines to print for it.
func renderFile(
	ctx context.Context,
	cmd *cli.Command,
	l *log.Logger,
	input, output string,
	opts renderOptions,
) (string, error) {
	src, err := os.Open(input) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer src.Close()

	var pcm bytes.Buffer
	if err = ffmpeg.Decode(ctx, src, &pcm, opts.rate, opts.channels); err != nil {
		return "", fmt.Errorf("decoding: %w", err)
	}

	audio, err := ffmpeg.ReadFloat32(&pcm, opts.channels)
	if err != nil {
		return "", err
	}
	if len(audio[0]) == 0 {
		return "", errEmptyInput
	}

	p, err := newProcessor(cmd, l, opts.channels)
	if err != nil {
		return "", err
	}
	if err = p.Prepare(float64(opts.rate), opts.block); err != nil {
		return "", err
	}

	var prof *debug.BlockProfiler
	if opts.profile {
		prof = debug.NewBlockProfiler(float64(opts.rate), opts.block)
	}
	rendered := processAll(p, audio, opts.block, prof, nil)

	var raw bytes.Buffer
	if err = ffmpeg.WriteFloat32(&raw, rendered); err != nil {
		return "", err
	}

	if dir := filepath.Dir(output); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // output directories are user-visible
			return "", err
		}
	}
	dst, err := os.Create(output) //nolint:gosec // CLI tool writes user-specified paths
	if err != nil {
		return "", fmt.Errorf("creating output: %w", err)
	}
	defer dst.Close()

	if err = ffmpeg.Encode(ctx, &raw, dst, opts.rate, opts.channels); err != nil {
		return "", fmt.Errorf("encoding: %w", err)
	}

	status := p.Status()
	l.Info("rendered", "output", output, "frames", len(audio[0]), "dropouts", status.Dropouts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> %s: %s dropouts=%d\n", input, output, status, status.Dropouts)
	for _, issue := range check(rendered) {
		l.Warn("output check", "issue", issue)
		fmt.Fprintf(&sb, "  %s\n", issue)
	}
	if prof != nil {
		sb.WriteString(prof.AudioReport())
	}

	return sb.String(), nil
}

// check runs the buffer sanity checks over the whole render. The output
// is clamped, so only full-scale hits count as clipping.
func check(channels [][]float32) []string {
	analyzer := debug.NewAudioAnalyzer()
	analyzer.ClippingThreshold = 1

	var result debug.AnalysisResult
	for _, ch := range channels {
		result.Merge(analyzer.Analyze(ch))
	}

	return analyzer.Issues(result, "output")
}
