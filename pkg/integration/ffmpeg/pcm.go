package ffmpeg

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/farcloser/primordium/fault"
)

// ReadFloat32 reads interleaved little-endian float32 frames and splits
// them into one slice per channel. A trailing partial frame is dropped.
func ReadFloat32(r io.Reader, channels int) ([][]float32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	frames := len(data) / (4 * channels)
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 4
			out[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}

// WriteFloat32 interleaves the channels as little-endian float32 frames.
// All channels must have the same length.
func WriteFloat32(w io.Writer, channels [][]float32) error {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	buf := make([]byte, frames*len(channels)*4)
	for i := 0; i < frames; i++ {
		for ch, samples := range channels {
			off := (i*len(channels) + ch) * 4
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(samples[i]))
		}
	}
	_, err := w.Write(buf)
	return err
}
