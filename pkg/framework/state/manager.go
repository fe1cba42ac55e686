// Package state saves and restores a flat parameter set.
package state

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/justyntemme/retrocall/pkg/framework/param"
)

// FormatName identifies retrocall state files.
const FormatName = "retrocall-state"

// Version is the newest state layout this package writes.
const Version uint32 = 1

var (
	// ErrInvalidFormat is returned for data that is not a state file.
	ErrInvalidFormat = errors.New("invalid state format")
	// ErrUnsupportedVersion is returned for files written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported state version")
)

// Custom lets a processor persist settings that are not parameters.
type Custom interface {
	SaveCustom() ([]byte, error)
	LoadCustom(data []byte) error
}

// Entry is one persisted parameter. The name is informational; loading
// matches on ID.
type Entry struct {
	ID    uint32  `msgpack:"id"`
	Name  string  `msgpack:"name"`
	Value float64 `msgpack:"value"` // normalized
}

// Snapshot is the serialized form of a parameter set.
type Snapshot struct {
	Format  string  `msgpack:"format"`
	Version uint32  `msgpack:"version"`
	Params  []Entry `msgpack:"params"`
	Custom  []byte  `msgpack:"custom,omitempty"`
}

func (snap *Snapshot) validate() error {
	if snap.Format != FormatName {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, snap.Format)
	}
	if snap.Version > Version {
		return fmt.Errorf("%w: %d is newer than %d", ErrUnsupportedVersion, snap.Version, Version)
	}
	return nil
}

// Manager handles state saving and loading
type Manager struct {
	registry *param.Registry
	custom   Custom
}

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		registry: registry,
	}
}

// SetCustom registers extra state to carry along with the parameters
func (m *Manager) SetCustom(custom Custom) {
	m.custom = custom
}

// Snapshot captures every writable parameter
func (m *Manager) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Format:  FormatName,
		Version: Version,
	}

	for _, p := range m.registry.All() {
		if p.Flags&param.IsReadOnly != 0 {
			continue
		}
		snap.Params = append(snap.Params, Entry{ID: p.ID, Name: p.Name, Value: p.GetValue()})
	}

	if m.custom != nil {
		data, err := m.custom.SaveCustom()
		if err != nil {
			return nil, fmt.Errorf("saving custom state: %w", err)
		}
		snap.Custom = data
	}

	return snap, nil
}

// Apply restores parameters from a snapshot. Unknown and read-only
// parameters are skipped. Like Load it must not race a block in progress.
func (m *Manager) Apply(snap *Snapshot) error {
	if err := snap.validate(); err != nil {
		return err
	}

	for _, e := range snap.Params {
		p := m.registry.Get(e.ID)
		if p == nil || p.Flags&param.IsReadOnly != 0 {
			continue
		}
		p.SetValue(e.Value)
	}

	if m.custom != nil && len(snap.Custom) > 0 {
		if err := m.custom.LoadCustom(snap.Custom); err != nil {
			return fmt.Errorf("loading custom state: %w", err)
		}
	}

	return nil
}

// Save writes the state to a writer
func (m *Manager) Save(w io.Writer) error {
	snap, err := m.Snapshot()
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(snap)
}

// SaveCompressed writes the state like Save, compressed with zstd
func (m *Manager) SaveCompressed(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := m.Save(zw); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Load reads the state from a reader and applies it. Plain and
// zstd-compressed states are both accepted. Load writes parameters from the
// calling goroutine; a running processor should defer the snapshot from
// Read to a block boundary instead.
func (m *Manager) Load(r io.Reader) error {
	snap, err := Read(r)
	if err != nil {
		return err
	}
	return m.Apply(snap)
}

// Read decodes and validates a state without applying it.
func Read(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(zstdMagic)); bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		defer zr.Close()
		return decode(zr)
	}
	return decode(br)
}

func decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}
