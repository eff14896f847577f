package inputs

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Registry maps field types to their input strategies. Callers can override
// a built-in, but every supported type must stay covered; controllers look
// strategies up on every SetValue.
type Registry struct {
	mu     sync.RWMutex
	inputs map[model.FieldType]Input
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{inputs: make(map[model.FieldType]Input)}
}

// NewDefault creates a registry seeded with the ten built-in strategies.
func NewDefault() *Registry {
	r := New()
	for _, input := range builtins() {
		r.MustRegister(input)
	}
	return r
}

// Register associates an input strategy with its field type, replacing any
// existing entry.
func (r *Registry) Register(input Input) error {
	if !input.Type.Valid() {
		return fmt.Errorf("inputs: unsupported field type %q", input.Type)
	}
	if input.Normalize == nil {
		return fmt.Errorf("inputs: normalizer for %q is nil", input.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs[input.Type] = input
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying default
// registry setup.
func (r *Registry) MustRegister(input Input) {
	if err := r.Register(input); err != nil {
		panic(err)
	}
}

// Get fetches the strategy for a field type.
func (r *Registry) Get(t model.FieldType) (Input, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	input, ok := r.inputs[t]
	if !ok {
		return Input{}, fmt.Errorf("inputs: no strategy registered for type %q", t)
	}
	return input, nil
}

// MustGet mirrors Get but panics when the type has no strategy.
func (r *Registry) MustGet(t model.FieldType) Input {
	input, err := r.Get(t)
	if err != nil {
		panic(err)
	}
	return input
}

// Has reports whether the type has a registered strategy.
func (r *Registry) Has(t model.FieldType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.inputs[t]
	return ok
}

// Normalize runs the registered strategy for the field's type against raw
// interaction input.
func (r *Registry) Normalize(field model.Field, raw any) (any, error) {
	input, err := r.Get(field.Type)
	if err != nil {
		return nil, err
	}
	return input.Normalize(field, raw)
}

// Clone returns an isolated copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for t, input := range r.inputs {
		cloned.inputs[t] = input
	}
	return cloned
}

func builtins() []Input {
	return []Input{
		{Type: model.FieldTypeText, Normalize: normalizeText, Traits: Traits{HTMLType: "text"}},
		{Type: model.FieldTypeEmail, Normalize: normalizeText, Traits: Traits{HTMLType: "email"}},
		{Type: model.FieldTypePassword, Normalize: normalizeText, Traits: Traits{Secret: true, HTMLType: "password"}},
		{Type: model.FieldTypeDate, Normalize: normalizeText, Traits: Traits{HTMLType: "date"}},
		{Type: model.FieldTypeTextarea, Normalize: normalizeText, Traits: Traits{Multiline: true}},
		{Type: model.FieldTypeCheckbox, Normalize: normalizeCheckbox, Traits: Traits{HTMLType: "checkbox"}},
		{Type: model.FieldTypeRadio, Normalize: normalizeChoice, Traits: Traits{Choice: true, HTMLType: "radio"}},
		{Type: model.FieldTypeSelect, Normalize: normalizeChoice, Traits: Traits{Choice: true}},
		{Type: model.FieldTypeFile, Normalize: normalizeFile, Traits: Traits{HTMLType: "file"}},
		{Type: model.FieldTypeRating, Normalize: normalizeRating, Traits: Traits{}},
	}
}
