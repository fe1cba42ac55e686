package ffmpeg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/farcloser/primordium/fault"
)

func TestFloat32Frames(t *testing.T) {
	in := [][]float32{
		{0, 0.5, -1, 0.25},
		{1, -0.5, 0.125, 0},
	}
	var buf bytes.Buffer
	if err := WriteFloat32(&buf, in); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4*2*4 {
		t.Fatalf("wrote %d bytes, want 32", buf.Len())
	}

	// drop half a frame to check partial frames are ignored
	data := buf.Bytes()[:buf.Len()-4]
	out, err := ReadFloat32(bytes.NewReader(data), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || len(out[0]) != 3 {
		t.Fatalf("got %d channels of %d frames, want 2 of 3", len(out), len(out[0]))
	}
	for ch := range out {
		for i := range out[ch] {
			if out[ch][i] != in[ch][i] {
				t.Errorf("ch %d frame %d = %f, want %f", ch, i, out[ch][i], in[ch][i])
			}
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReadFailure(t *testing.T) {
	_, err := ReadFloat32(failingReader{}, 1)
	if !errors.Is(err, fault.ErrReadFailure) {
		t.Errorf("error = %v, want ErrReadFailure", err)
	}
}

func TestDecodeMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	err := Decode(t.Context(), bytes.NewReader(nil), &bytes.Buffer{}, 44100, 1)
	if !errors.Is(err, fault.ErrMissingRequirements) {
		t.Errorf("error = %v, want ErrMissingRequirements", err)
	}
}
