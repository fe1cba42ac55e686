package state

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justyntemme/retrocall/pkg/framework/param"
)

type seedState struct {
	seed int64
}

func (s *seedState) SaveCustom() ([]byte, error) {
	return msgpack.Marshal(s.seed)
}

func (s *seedState) LoadCustom(data []byte) error {
	return msgpack.Unmarshal(data, &s.seed)
}

func newRegistry() *param.Registry {
	r := param.NewRegistry()
	r.MustAdd(
		param.Choice(0, "Phone Type", "Classic", "Modern", "Vintage").Build(),
		param.PercentParameter(3, "Distortion", 0).Build(),
		param.Meter(14, "Signal Strength", 0, 100).Build(),
	)
	return r
}

func TestSaveLoad(t *testing.T) {
	src := newRegistry()
	src.Get(0).SetIndex(2)
	src.Get(3).SetPlainValue(35)
	src.Get(14).SetPlainValue(80)

	saver := NewManager(src)
	saver.SetCustom(&seedState{seed: 42})

	var buf bytes.Buffer
	if err := saver.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newRegistry()
	custom := &seedState{}
	loader := NewManager(dst)
	loader.SetCustom(custom)
	if err := loader.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if dst.Get(0).Index() != 2 {
		t.Errorf("Phone Type index = %d, want 2", dst.Get(0).Index())
	}
	if got := dst.Get(3).GetPlainValue(); got != 35 {
		t.Errorf("Distortion = %f, want 35", got)
	}
	if got := dst.Get(14).GetPlainValue(); got != 0 {
		t.Errorf("read-only meter restored to %f, want untouched 0", got)
	}
	if custom.seed != 42 {
		t.Errorf("custom seed = %d, want 42", custom.seed)
	}
}

func TestSnapshotSkipsReadOnly(t *testing.T) {
	snap, err := NewManager(newRegistry()).Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Params) != 2 {
		t.Errorf("got %d entries, want 2", len(snap.Params))
	}
}

func TestLoadErrors(t *testing.T) {
	m := NewManager(newRegistry())

	if err := m.Load(bytes.NewReader([]byte("not msgpack at all"))); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("garbage: error = %v, want ErrInvalidFormat", err)
	}

	if err := m.Apply(&Snapshot{Format: "other"}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("wrong format: error = %v, want ErrInvalidFormat", err)
	}

	if err := m.Apply(&Snapshot{Format: FormatName, Version: Version + 1}); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("newer version: error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestApplyIgnoresUnknownIDs(t *testing.T) {
	r := newRegistry()
	err := NewManager(r).Apply(&Snapshot{
		Format:  FormatName,
		Version: Version,
		Params:  []Entry{{ID: 99, Value: 1}, {ID: 3, Value: 0.5}},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := r.Get(3).GetPlainValue(); got != 50 {
		t.Errorf("Distortion = %f, want 50", got)
	}
}

func TestSaveCompressed(t *testing.T) {
	src := newRegistry()
	src.Get(0).SetIndex(1)
	src.Get(3).SetPlainValue(60)

	var buf bytes.Buffer
	if err := NewManager(src).SaveCompressed(&buf); err != nil {
		t.Fatalf("SaveCompressed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), zstdMagic) {
		t.Fatalf("compressed state starts with % x", buf.Bytes()[:4])
	}

	dst := newRegistry()
	if err := NewManager(dst).Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dst.Get(0).Index() != 1 {
		t.Errorf("Phone Type index = %d, want 1", dst.Get(0).Index())
	}
	if got := dst.Get(3).GetPlainValue(); got != 60 {
		t.Errorf("Distortion = %f, want 60", got)
	}
}

func TestReadDoesNotApply(t *testing.T) {
	src := newRegistry()
	src.Get(3).SetPlainValue(70)

	var buf bytes.Buffer
	if err := NewManager(src).Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newRegistry()
	before := dst.Get(3).GetPlainValue()
	snap, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if dst.Get(3).GetPlainValue() != before {
		t.Error("Read changed a parameter")
	}

	if err := NewManager(dst).Apply(snap); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := dst.Get(3).GetPlainValue(); got != 70 {
		t.Errorf("Distortion = %f, want 70", got)
	}

	var newer bytes.Buffer
	if err := msgpack.NewEncoder(&newer).Encode(&Snapshot{Format: FormatName, Version: Version + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(&newer); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("newer version: error = %v, want ErrUnsupportedVersion", err)
	}
}
