package render

import theme "github.com/goliatone/go-theme"

// Options describe per-request presentation details that renderers can use
// to customise their output without touching the compiled definition.
type Options struct {
	// Method sets the submission method emitted by markup renderers.
	// Renderers translate non-browser verbs (PATCH/PUT/DELETE) into POST
	// plus a hidden _method input.
	Method string
	// Action sets the submission target emitted by markup renderers.
	Action string
	// ClassNames overrides the stock class for individual slots. Keys follow
	// the Slot names defined in this package; definition-level overrides are
	// merged underneath these.
	ClassNames map[string]string
	// Theme carries a resolved theme selection for renderers that emit
	// themed chrome (CSS variables, partial overrides, asset URLs). Nil
	// renders unthemed output.
	Theme *theme.RendererConfig
}
