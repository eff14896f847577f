package model

import (
	internalmodel "github.com/goliatone/go-formflow/internal/model"
)

// Builder compiles descriptor lists into form definitions.
type Builder interface {
	Build(form Form) (*Definition, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler   func(string) string
	sanitizer func(string) string
}

// WithLabeler overrides the default label derivation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithSanitizer overrides the rich-text sanitizer applied to labels and
// descriptions. Passing the identity function disables sanitizing.
func WithSanitizer(sanitizer func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.sanitizer = sanitizer
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := internalmodel.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}
	if cfg.sanitizer != nil {
		internalOpts.Sanitizer = cfg.sanitizer
	}

	return internalmodel.New(internalOpts)
}

// Compile builds a definition from a bare descriptor list with default
// builder options. Most callers outside document loading want this.
func Compile(fields []Field) (*Definition, error) {
	return NewBuilder().Build(Form{Fields: fields})
}
