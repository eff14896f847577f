package form

import (
	"context"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formflow/pkg/inputs"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// SubmitFunc is the host callback invoked with the validated payload. A
// returned error is reported to the Submit caller; the controller never
// resets on its own in response.
type SubmitFunc func(ctx context.Context, payload map[string]any) error

// Option configures a Controller before the definition compiles.
type Option func(*Controller)

// WithValidator replaces the built-in rules validator with an external
// engine. The controller treats it as a black box.
func WithValidator(v validation.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithSubmitHandler installs the host callback invoked on accepted
// submissions.
func WithSubmitHandler(fn SubmitFunc) Option {
	return func(c *Controller) {
		c.onSubmit = fn
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithInputs replaces the default input registry, letting hosts override
// per-type normalization.
func WithInputs(registry *inputs.Registry) Option {
	return func(c *Controller) {
		if registry != nil {
			c.inputs = registry
		}
	}
}

// WithRenderers wires the render registry Render dispatches through.
func WithRenderers(registry *render.Registry) Option {
	return func(c *Controller) {
		c.renderers = registry
	}
}

// WithThemeSelector wires a go-theme selector used to derive renderer theme
// configuration during Render.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(c *Controller) {
		c.themes = selector
	}
}

// WithTheme sets the default theme and variant resolved when a render call
// does not name one.
func WithTheme(name, variant string) Option {
	return func(c *Controller) {
		c.themeName = name
		c.themeVariant = variant
	}
}

// WithVisibilityEvaluator enables rule-expression visibility on top of the
// structural conditions.
func WithVisibilityEvaluator(eval visibility.Evaluator) Option {
	return func(c *Controller) {
		c.evaluator = eval
	}
}

// WithExtras supplies host context (roles, flags) addressable from rule
// expressions under the "extras." prefix.
func WithExtras(extras map[string]any) Option {
	return func(c *Controller) {
		c.extras = extras
	}
}

// WithBuilder overrides how descriptors compile, e.g. to swap the labeler or
// sanitizer.
func WithBuilder(builder model.Builder) Option {
	return func(c *Controller) {
		if builder != nil {
			c.builder = builder
		}
	}
}

// WithID pins the instance ID instead of minting a uuid. Mostly for tests
// and for hosts that key sessions externally.
func WithID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}
