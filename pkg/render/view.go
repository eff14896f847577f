package render

import (
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// NewView resolves visibility for the given values and assembles the
// renderer snapshot. Values and errors maps are referenced, not copied;
// callers that keep mutating them should pass clones.
func NewView(def *model.Definition, values map[string]any, errs map[string][]string) View {
	view := View{
		Definition: def,
		Values:     values,
		Errors:     errs,
	}
	if def == nil {
		return view
	}

	active := visibility.Resolve(def, values)
	view.Fields = make([]model.Field, 0, len(active))
	for _, field := range def.Fields {
		if active.Has(field.Name) {
			view.Fields = append(view.Fields, field)
		}
	}
	return view
}

// Value returns the stored value for a field, or nil when absent.
func (v View) Value(name string) any {
	if v.Values == nil {
		return nil
	}
	return v.Values[name]
}

// ErrorsFor returns the validation messages recorded for a field.
func (v View) ErrorsFor(name string) []string {
	if v.Errors == nil {
		return nil
	}
	return v.Errors[name]
}

// Visible reports whether the named field is part of the rendered subset.
func (v View) Visible(name string) bool {
	for _, field := range v.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

// Invalid reports whether the view carries any validation messages, field
// or form level.
func (v View) Invalid() bool {
	if len(v.FormErrors) > 0 {
		return true
	}
	for _, messages := range v.Errors {
		if len(messages) > 0 {
			return true
		}
	}
	return false
}
