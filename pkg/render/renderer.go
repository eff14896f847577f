// Package render defines the renderer contract shared by every output
// backend. Renderers consume an immutable View (compiled definition, the
// currently visible fields, values, validation messages) and emit bytes;
// they never mutate form state or decide visibility themselves.
package render

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/model"
)

// View is the snapshot a renderer consumes. Fields holds only the fields
// that are visible for the current values, in declaration order; hidden
// fields are absent even when Values still retains their data.
type View struct {
	Definition *model.Definition
	Fields     []model.Field
	Values     map[string]any
	Errors     map[string][]string
	// FormErrors holds messages that apply to the submission as a whole
	// rather than to one field.
	FormErrors []string
	// FormID identifies the rendered instance so markup renderers can derive
	// stable element ids and label/input associations.
	FormID string
}

// Renderer converts a view into a byte representation (HTML, ANSI, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options Options) ([]byte, error)
}
