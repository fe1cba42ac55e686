// Package ffmpeg decodes audio files to float PCM and encodes float PCM
// back to WAV through the ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/farcloser/primordium/fault"
)

const (
	name = "ffmpeg"
	// Long files on slow disks take a while; the limit only catches hangs.
	timeout   = 5 * time.Minute
	rawFormat = "f32le"
	rawCodec  = "pcm_f32le"
	wavCodec  = "pcm_s16le"
)

// Available reports whether ffmpeg is on the PATH.
func Available() (string, bool) {
	path, err := exec.LookPath(name)
	return path, err == nil
}

// Decode converts any audio input to interleaved little-endian float32 at
// sampleRate with the given channel count.
func Decode(ctx context.Context, input io.Reader, output io.Writer, sampleRate, channels int) error {
	slog.Debug("ffmpeg.Decode", "rate", sampleRate, "channels", channels, "stage", "start")

	return run(ctx, "ffmpeg.Decode", input, output,
		"-i", "-",
		"-map", "0:a:0",
		"-f", rawFormat,
		"-acodec", rawCodec,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-v", "quiet",
		"-",
	)
}

// Encode converts interleaved float32 PCM to a 16-bit WAV stream.
func Encode(ctx context.Context, input io.Reader, output io.Writer, sampleRate, channels int) error {
	slog.Debug("ffmpeg.Encode", "rate", sampleRate, "channels", channels, "stage", "start")

	return run(ctx, "ffmpeg.Encode", input, output,
		"-f", rawFormat,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-i", "-",
		"-acodec", wavCodec,
		"-f", "wav",
		"-v", "quiet",
		"-",
	)
}

func run(ctx context.Context, op string, input io.Reader, output io.Writer, args ...string) error {
	ffmpegPath, found := Available()
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Stdin = input
	cmd.Stdout = output

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug(op, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug(op, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	slog.Debug(op, "stage", "done")

	return nil
}
