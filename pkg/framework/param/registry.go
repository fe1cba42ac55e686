package param

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrDuplicateID is returned when two parameters share an ID.
	ErrDuplicateID = errors.New("duplicate parameter id")
	// ErrUnknownParameter is returned for lookups that match nothing.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidValue is returned when a value string cannot be parsed.
	ErrInvalidValue = errors.New("invalid parameter value")
)

// Registry manages the parameter surface. It is meant for the control side;
// the audio thread should hold on to *Parameter pointers instead of looking
// them up here, since lookups take a read lock.
type Registry struct {
	params map[uint32]*Parameter
	names  map[string]uint32
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		names:  make(map[string]uint32),
		order:  make([]uint32, 0),
	}
}

// Add registers new parameters
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if existing, exists := r.params[p.ID]; exists {
			return fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateID, p.ID, existing.Name, p.Name)
		}
		r.params[p.ID] = p
		r.names[nameKey(p.Name)] = p.ID
		if p.ShortName != "" {
			r.names[nameKey(p.ShortName)] = p.ID
		}
		r.order = append(r.order, p.ID)
	}

	return nil
}

// MustAdd is Add for static layouts where a duplicate is a programming error
func (r *Registry) MustAdd(params ...*Parameter) {
	if err := r.Add(params...); err != nil {
		panic(err)
	}
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByName retrieves a parameter by name or short name, case-insensitively
func (r *Registry) GetByName(name string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[nameKey(name)]
	if !ok {
		return nil
	}
	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// SetPlain sets a parameter's plain value by ID
func (r *Registry) SetPlain(id uint32, plain float64) error {
	p := r.Get(id)
	if p == nil {
		return fmt.Errorf("%w: id %d", ErrUnknownParameter, id)
	}
	p.SetPlainValue(plain)
	return nil
}

// SetString parses text with the parameter's parser and applies it
func (r *Registry) SetString(name, text string) error {
	p := r.GetByName(name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	normalized, err := p.ParseValue(text)
	if err != nil {
		return err
	}
	p.SetValue(normalized)
	return nil
}

// ResetAll restores every writable parameter to its default
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		if p.Flags&IsReadOnly == 0 {
			p.Reset()
		}
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
