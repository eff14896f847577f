// Package form hosts the controller that ties the pipeline together:
// descriptors compile into a definition, values normalize through the input
// registry, visibility re-resolves after every write, and submission runs
// the payload through a validator before the host callback sees it.
//
// A controller is safe for concurrent use. Mutation funnels through
// SetValue; Submit holds an in-flight flag instead of the lock while the
// validator and host callback run, so Reset stays responsive and a reset
// racing a submission wins: the submission's outcome is discarded.
package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/inputs"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Controller owns one live form instance: compiled definition, value store,
// visibility set, validation messages, and the single-flight submission
// state.
type Controller struct {
	mu sync.Mutex

	id  string
	def *model.Definition

	inputs    *inputs.Registry
	validator validation.Validator
	onSubmit  SubmitFunc
	renderers *render.Registry
	builder   model.Builder
	logger    zerolog.Logger

	themes       theme.ThemeSelector
	themeName    string
	themeVariant string

	evaluator visibility.Evaluator
	extras    map[string]any

	initial     map[string]any
	values      map[string]any
	fieldErrors map[string][]string
	formErrors  []string
	active      visibility.Set

	submitting bool
	generation uint64
}

// Submission is the outcome of one Submit call. Accepted submissions carry
// the payload that was handed to the host callback; rejected ones carry the
// recorded messages instead.
type Submission struct {
	Accepted   bool
	Payload    map[string]any
	Errors     map[string][]string
	FormErrors []string
}

// New compiles the descriptor list and builds a ready controller. Definition
// violations surface as a *model.ConfigError; a declared default that fails
// its field's normalization is equally fatal.
func New(fields []model.Field, opts ...Option) (*Controller, error) {
	return NewForm(model.Form{Fields: fields}, opts...)
}

// NewForm is New for a full document-level form carrying title, submit
// label, and class overrides alongside the fields.
func NewForm(f model.Form, opts ...Option) (*Controller, error) {
	c := &Controller{
		inputs: inputs.NewDefault(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.builder == nil {
		c.builder = model.NewBuilder()
	}
	def, err := c.builder.Build(f)
	if err != nil {
		return nil, err
	}
	c.def = def

	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.validator == nil {
		rules, err := validation.NewRules(def)
		if err != nil {
			return nil, err
		}
		c.validator = rules
	}

	initial := def.Defaults()
	for _, field := range def.Fields {
		if field.Default == nil {
			continue
		}
		normalized, err := c.inputs.Normalize(field, field.Default)
		if err != nil {
			return nil, fmt.Errorf("form: field %q: invalid default: %w", field.Name, err)
		}
		initial[field.Name] = normalized
	}
	c.initial = initial
	c.values = cloneValues(initial)
	c.fieldErrors = make(map[string][]string)
	c.refreshVisibility()

	c.logger.Debug().
		Str("form_id", c.id).
		Int("fields", def.Len()).
		Msg("form initialized")
	return c, nil
}

// SetValue normalizes raw through the field's input and stores it, then
// re-resolves visibility. A rejected value (inputs.InputError) leaves the
// prior value and the visibility set untouched. Writing a field clears its
// recorded validation messages; fields hidden by the write keep their stored
// values and reappear with them when visibility returns.
func (c *Controller) SetValue(name string, raw any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	field, ok := c.def.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	normalized, err := c.inputs.Normalize(field, raw)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("form_id", c.id).
			Str("field", name).
			Msg("input rejected")
		return err
	}

	c.values[name] = normalized
	delete(c.fieldErrors, name)
	c.refreshVisibility()
	return nil
}

// SetValues applies a batch of writes in declaration order so dependent
// visibility settles deterministically. Individual failures accumulate; the
// remaining writes still apply.
func (c *Controller) SetValues(values map[string]any) error {
	var errs []error
	for _, field := range c.def.Fields {
		raw, ok := values[field.Name]
		if !ok {
			continue
		}
		if err := c.SetValue(field.Name, raw); err != nil {
			errs = append(errs, err)
		}
	}

	unknown := make([]string, 0)
	for name := range values {
		if !c.def.Has(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownField, name))
	}
	return errors.Join(errs...)
}

// Submit validates the active-field payload and, when it passes, invokes the
// host callback. Hidden fields are omitted from the payload entirely. A
// second call while one is in flight returns ErrSubmitPending; a reset
// landing mid-flight makes the outcome return ErrStaleSubmission and leaves
// the reset state untouched. Accepted submissions do not reset the form.
func (c *Controller) Submit(ctx context.Context) (Submission, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return Submission{}, ErrSubmitPending
	}
	c.submitting = true
	generation := c.generation
	payload := c.payloadLocked()
	c.mu.Unlock()

	logger := c.logger.With().Str("form_id", c.id).Logger()
	logger.Debug().Int("fields", len(payload)).Msg("submitting")

	result, validateErr := c.validator.Validate(ctx, payload)

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		logger.Debug().Msg("discarding validator result after reset")
		return Submission{}, ErrStaleSubmission
	}
	if validateErr != nil {
		c.submitting = false
		c.mu.Unlock()
		return Submission{}, fmt.Errorf("form: validate: %w", validateErr)
	}
	if !result.Valid {
		mapping := render.MapErrorPayload(c.def, result.Errors)
		c.fieldErrors = cloneErrors(mapping.Fields)
		c.formErrors = append([]string(nil), mapping.Form...)
		c.submitting = false
		c.mu.Unlock()

		logger.Debug().Int("rejected_fields", len(mapping.Fields)).Msg("validation failed")
		return Submission{
			Payload:    payload,
			Errors:     mapping.Fields,
			FormErrors: mapping.Form,
		}, nil
	}
	c.fieldErrors = make(map[string][]string)
	c.formErrors = nil
	onSubmit := c.onSubmit
	c.mu.Unlock()

	var callbackErr error
	if onSubmit != nil {
		callbackErr = onSubmit(ctx, payload)
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		logger.Debug().Msg("discarding submit outcome after reset")
		return Submission{}, ErrStaleSubmission
	}
	c.submitting = false
	c.mu.Unlock()

	if callbackErr != nil {
		return Submission{}, fmt.Errorf("form: submit callback: %w", callbackErr)
	}
	logger.Info().Msg("submission accepted")
	return Submission{Accepted: true, Payload: payload}, nil
}

// Reset restores initial values, clears all messages, and re-resolves
// visibility. Safe on a nil controller, idempotent, and never blocked by an
// in-flight submission: bumping the generation makes the in-flight outcome
// stale.
func (c *Controller) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = cloneValues(c.initial)
	c.fieldErrors = make(map[string][]string)
	c.formErrors = nil
	c.generation++
	c.submitting = false
	c.refreshVisibility()

	c.logger.Debug().Str("form_id", c.id).Msg("form reset")
}

// ID returns the instance identifier stamped into logs and rendered markup.
func (c *Controller) ID() string {
	return c.id
}

// Definition exposes the compiled definition.
func (c *Controller) Definition() *model.Definition {
	return c.def
}

// Value returns the stored value for a field and whether the field exists.
// Hidden fields report their retained values.
func (c *Controller) Value(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.def.Has(name) {
		return nil, false
	}
	return deepCopy(c.values[name]), true
}

// Values returns a snapshot of every stored value, hidden fields included.
func (c *Controller) Values() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneValues(c.values)
}

// Visible reports whether the named field is currently active.
func (c *Controller) Visible(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.Has(name)
}

// Fields returns the active fields in declaration order.
func (c *Controller) Fields() []model.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeFieldsLocked()
}

// Errors returns a snapshot of the per-field validation messages. An absent
// key means the field has no error.
func (c *Controller) Errors() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneErrors(c.fieldErrors)
}

// FormErrors returns messages that could not be attributed to a field.
func (c *Controller) FormErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.formErrors...)
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Controller) activeFieldsLocked() []model.Field {
	fields := make([]model.Field, 0, len(c.active))
	for _, field := range c.def.Fields {
		if c.active.Has(field.Name) {
			fields = append(fields, field)
		}
	}
	return fields
}

func (c *Controller) payloadLocked() map[string]any {
	payload := make(map[string]any, len(c.active))
	for _, field := range c.def.Fields {
		if c.active.Has(field.Name) {
			payload[field.Name] = deepCopy(c.values[field.Name])
		}
	}
	return payload
}

func (c *Controller) refreshVisibility() {
	if c.evaluator == nil {
		c.active = visibility.Resolve(c.def, c.values)
		return
	}
	active, err := visibility.ResolveWith(c.def, c.values, c.evaluator, c.extras)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("form_id", c.id).
			Msg("visibility rule failed; affected fields stay hidden")
	}
	c.active = active
}
