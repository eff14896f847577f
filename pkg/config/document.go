// Package config loads form definition documents from JSON or YAML and
// keeps long-lived deployments current through a hot-reload holder.
package config

import (
	"github.com/goliatone/go-formflow/pkg/model"
)

// Document is the on-disk shape of a form: a presentation header plus the
// ordered descriptor list. Field entries reuse the model tags, so documents
// round-trip unchanged.
type Document struct {
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Theme       string            `json:"theme,omitempty" yaml:"theme,omitempty"`
	Variant     string            `json:"variant,omitempty" yaml:"variant,omitempty"`
	ClassNames  map[string]string `json:"classNames,omitempty" yaml:"classNames,omitempty"`
	Fields      []model.Field     `json:"fields" yaml:"fields"`
}

// Form converts the document into the builder input.
func (d Document) Form() model.Form {
	return model.Form{
		Title:       d.Title,
		SubmitLabel: d.SubmitLabel,
		ClassNames:  d.ClassNames,
		Fields:      d.Fields,
	}
}

// Definition compiles the document with default builder options.
func (d Document) Definition() (*model.Definition, error) {
	return model.NewBuilder().Build(d.Form())
}
