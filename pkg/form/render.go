package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/render"
)

// RenderOption customises one Render call without touching controller
// defaults.
type RenderOption func(*renderSettings)

type renderSettings struct {
	method       string
	action       string
	classNames   map[string]string
	themeName    string
	themeVariant string
	themeChosen  bool
}

// RenderWithMethod overrides the submission method (default POST).
func RenderWithMethod(method string) RenderOption {
	return func(s *renderSettings) {
		if method != "" {
			s.method = method
		}
	}
}

// RenderWithAction sets the submission target emitted in markup.
func RenderWithAction(action string) RenderOption {
	return func(s *renderSettings) {
		s.action = action
	}
}

// RenderWithClassNames layers per-call class overrides on top of the
// definition-level ones.
func RenderWithClassNames(overrides map[string]string) RenderOption {
	return func(s *renderSettings) {
		s.classNames = overrides
	}
}

// RenderWithTheme resolves the named theme and variant for this call instead
// of the controller defaults.
func RenderWithTheme(name, variant string) RenderOption {
	return func(s *renderSettings) {
		s.themeName = name
		s.themeVariant = variant
		s.themeChosen = true
	}
}

// Render snapshots the current view and dispatches it through the configured
// render registry. An empty renderer name resolves the registry default.
func (c *Controller) Render(ctx context.Context, renderer string, opts ...RenderOption) ([]byte, error) {
	if c.renderers == nil {
		return nil, errors.New("form: no render registry configured")
	}
	target, err := c.renderers.Get(renderer)
	if err != nil {
		return nil, err
	}

	settings := renderSettings{method: "POST"}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	c.mu.Lock()
	view := render.View{
		Definition: c.def,
		Fields:     c.activeFieldsLocked(),
		Values:     cloneValues(c.values),
		Errors:     cloneErrors(c.fieldErrors),
		FormErrors: append([]string(nil), c.formErrors...),
		FormID:     c.id,
	}
	c.mu.Unlock()

	options := render.Options{
		Method: settings.method,
		Action: settings.action,
	}
	classNames := render.MergeClassNames(render.DefaultClassNames(), c.def.ClassNames)
	options.ClassNames = render.MergeClassNames(classNames, settings.classNames)

	name, variant := c.themeName, c.themeVariant
	if settings.themeChosen {
		name, variant = settings.themeName, settings.themeVariant
	}
	if c.themes != nil && name != "" {
		selection, err := c.themes.Select(name, variant)
		if err != nil {
			return nil, fmt.Errorf("form: select theme %q: %w", name, err)
		}
		options.Theme = render.DeriveTheme(selection, render.DefaultThemeFallbacks())
	}

	return target.Render(ctx, view, options)
}
