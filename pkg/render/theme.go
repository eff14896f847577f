package render

import (
	"path"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeFallbacks maps form partial slots to the stock template paths
// used when a theme manifest does not override them.
func DefaultThemeFallbacks() map[string]string {
	return map[string]string{
		"forms.form":     "templates/forms/form.tpl",
		"forms.input":    "templates/forms/input.tpl",
		"forms.textarea": "templates/forms/textarea.tpl",
		"forms.checkbox": "templates/forms/checkbox.tpl",
		"forms.radio":    "templates/forms/radio.tpl",
		"forms.select":   "templates/forms/select.tpl",
		"forms.file":     "templates/forms/file.tpl",
		"forms.rating":   "templates/forms/rating.tpl",
		"forms.submit":   "templates/forms/submit.tpl",
	}
}

// DeriveTheme flattens a selection into renderer configuration. Partials
// start from the fallbacks, then manifest templates, then variant templates.
// Tokens merge base with variant and feed the "--<token>" CSS custom
// properties. The asset resolver prefers variant file entries and joins them
// with the manifest prefix.
func DeriveTheme(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}

	partials := make(map[string]string, len(fallbacks))
	for key, value := range fallbacks {
		partials[key] = value
	}
	tokens := make(map[string]string)

	var (
		base    theme.Assets
		variant theme.Variant
	)
	if manifest := selection.Manifest; manifest != nil {
		for key, value := range manifest.Templates {
			partials[key] = value
		}
		for key, value := range manifest.Tokens {
			tokens[key] = value
		}
		base = manifest.Assets
		if selection.Variant != "" {
			variant = manifest.Variants[selection.Variant]
			for key, value := range variant.Templates {
				partials[key] = value
			}
			for key, value := range variant.Tokens {
				tokens[key] = value
			}
		}
	}

	cfg.Partials = partials
	cfg.Tokens = tokens

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}
	cfg.CSSVars = cssVars

	cfg.AssetURL = func(key string) string {
		file := variant.Assets.Files[key]
		if file == "" {
			file = base.Files[key]
		}
		if file == "" {
			return ""
		}
		prefix := variant.Assets.Prefix
		if prefix == "" {
			prefix = base.Prefix
		}
		if prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}

	return cfg
}
