// Package formflow is the top-level convenience surface: type aliases for the
// common model and controller types, constructors that wire the default
// renderer registry, and glue from form documents and OpenAPI operations to
// live controllers.
//
// Hosts with more specific needs import the underlying packages directly;
// nothing here is more than a thin layer over them.
package formflow

import (
	"github.com/rs/zerolog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Version identifies the module build reported by the CLIs.
const Version = "0.1.0"

// Aliases for the types most hosts need, so simple integrations can import
// the root package alone.
type (
	Field      = model.Field
	FieldType  = model.FieldType
	Option     = model.Option
	Condition  = model.Condition
	Rule       = model.Rule
	Form       = model.Form
	Definition = model.Definition

	Controller = form.Controller
	Submission = form.Submission
	Handle     = form.Handle

	FormOption   = form.Option
	RenderOption = form.RenderOption
	SubmitFunc   = form.SubmitFunc
	Validator    = validation.Validator
)

// Field type constants re-exported alongside the aliases, keeping descriptor
// literals single-import.
const (
	FieldTypeText     = model.FieldTypeText
	FieldTypeEmail    = model.FieldTypeEmail
	FieldTypePassword = model.FieldTypePassword
	FieldTypeDate     = model.FieldTypeDate
	FieldTypeTextarea = model.FieldTypeTextarea
	FieldTypeCheckbox = model.FieldTypeCheckbox
	FieldTypeRadio    = model.FieldTypeRadio
	FieldTypeSelect   = model.FieldTypeSelect
	FieldTypeFile     = model.FieldTypeFile
	FieldTypeRating   = model.FieldTypeRating
)

// DefaultRegistry returns a fresh renderer registry with the built-in HTML
// renderer registered and selected as the default.
func DefaultRegistry() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister(html.New())
	if err := registry.SetDefault(html.Name); err != nil {
		panic(err)
	}
	return registry
}

// New compiles the descriptor list into a controller carrying the default
// renderer registry. Options append after the registry wiring, so callers can
// still swap registries with form.WithRenderers.
func New(fields []Field, options ...FormOption) (*Controller, error) {
	return form.New(fields, withDefaults(options)...)
}

// NewForm is New for a document-level form with title, submit label, and
// class overrides.
func NewForm(f Form, options ...FormOption) (*Controller, error) {
	return form.NewForm(f, withDefaults(options)...)
}

// Must panics when the constructor it wraps failed. Intended for static
// definitions known good at compile time.
func Must(controller *Controller, err error) *Controller {
	if err != nil {
		panic(err)
	}
	return controller
}

func withDefaults(options []FormOption) []FormOption {
	return append([]FormOption{form.WithRenderers(DefaultRegistry())}, options...)
}

// The most common controller options, forwarded so simple hosts stay on one
// import. Everything else lives in pkg/form.

// WithSubmitHandler installs the host callback accepted payloads reach.
func WithSubmitHandler(fn SubmitFunc) FormOption {
	return form.WithSubmitHandler(fn)
}

// WithValidator swaps the built-in rules validator for a host one.
func WithValidator(v Validator) FormOption {
	return form.WithValidator(v)
}

// WithLogger attaches a zerolog logger to the controller.
func WithLogger(logger zerolog.Logger) FormOption {
	return form.WithLogger(logger)
}

// WithThemeSelector wires a go-theme selector so Render can resolve themed
// class names, partials, and assets.
func WithThemeSelector(selector theme.ThemeSelector) FormOption {
	return form.WithThemeSelector(selector)
}
