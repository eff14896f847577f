// Package html renders the active field set as server-side markup: one
// labeled control per field, error and help blocks, merged class names, and
// theme CSS variables when a theme config is present. The built-in markup
// needs no templates; hosts wanting full control inject a template renderer
// and the form template resolves through the theme's partial map.
package html

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
)

// Name is the registry identifier for this renderer.
const Name = "html"

type Option func(*Renderer)

// WithTemplateRenderer swaps the built-in markup for template-driven output.
// The form template name comes from the theme partial map, falling back to
// the default partial path.
func WithTemplateRenderer(templates rendertemplate.TemplateRenderer) Option {
	return func(r *Renderer) {
		if templates != nil {
			r.templates = templates
		}
	}
}

// WithStylesheet adds a stylesheet link to the rendered form, before any
// theme-resolved stylesheet.
func WithStylesheet(href string) Option {
	return func(r *Renderer) {
		if href != "" {
			r.stylesheets = append(r.stylesheets, href)
		}
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	stylesheets []string
}

// New constructs the markup renderer applying any provided options.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup for the view's active fields. With a
// template renderer configured the whole document is delegated to the form
// template; otherwise the built-in builder emits the markup directly.
func (r *Renderer) Render(_ context.Context, view render.View, options render.Options) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("html: renderer is nil")
	}

	if r.templates != nil {
		result, err := r.templates.RenderTemplate(formTemplate(options), templateData(view, options))
		if err != nil {
			return nil, fmt.Errorf("html: render form template: %w", err)
		}
		return []byte(result), nil
	}

	return r.buildMarkup(view, options), nil
}

// formTemplate resolves the form template name from the theme partials,
// using the default partial path when the theme does not override it.
func formTemplate(options render.Options) string {
	if options.Theme != nil {
		if name := options.Theme.Partials["forms.form"]; name != "" {
			return name
		}
	}
	return render.DefaultThemeFallbacks()["forms.form"]
}

// templateData assembles the context handed to a template-driven render. The
// shape is part of the template contract: form metadata at the top, the
// active fields with their current values and errors inline.
func templateData(view render.View, options render.Options) map[string]any {
	fields := make([]map[string]any, 0, len(view.Fields))
	for _, field := range view.Fields {
		fields = append(fields, map[string]any{
			"field":  field,
			"value":  view.Value(field.Name),
			"errors": view.ErrorsFor(field.Name),
		})
	}

	data := map[string]any{
		"id":         view.FormID,
		"method":     options.Method,
		"action":     options.Action,
		"classNames": options.ClassNames,
		"fields":     fields,
		"errors":     view.Errors,
		"formErrors": view.FormErrors,
	}
	if view.Definition != nil {
		data["title"] = view.Definition.Title
		data["submitLabel"] = view.Definition.SubmitLabel
	}
	if options.Theme != nil {
		// The asset resolver is a function and cannot cross the template
		// boundary; themes expose a stylesheet to templates via cssVars and
		// token values instead.
		data["theme"] = map[string]any{
			"name":    options.Theme.Theme,
			"variant": options.Theme.Variant,
			"tokens":  options.Theme.Tokens,
			"cssVars": options.Theme.CSSVars,
		}
	}
	return data
}
