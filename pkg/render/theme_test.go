package render_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/render"
)

func TestDeriveTheme_VariantLayering(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#123456",
			"surface": "#ffffff",
		},
		Templates: map[string]string{
			"forms.input": "themes/acme/input.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"forms.checkbox": "themes/acme/dark/checkbox.tpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"stylesheet": "theme.dark.css",
					},
				},
			},
		},
	}

	cfg := render.DeriveTheme(&theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: manifest,
	}, render.DefaultThemeFallbacks())

	if cfg == nil {
		t.Fatal("expected renderer config")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("selection identity lost: %s/%s", cfg.Theme, cfg.Variant)
	}
	if got := cfg.Partials["forms.input"]; got != "themes/acme/input.tpl" {
		t.Fatalf("manifest template override missing, got %q", got)
	}
	if got := cfg.Partials["forms.checkbox"]; got != "themes/acme/dark/checkbox.tpl" {
		t.Fatalf("variant template override missing, got %q", got)
	}
	if got := cfg.Partials["forms.textarea"]; got != render.DefaultThemeFallbacks()["forms.textarea"] {
		t.Fatalf("fallback partial not applied, got %q", got)
	}
	if got := cfg.Tokens["brand"]; got != "#654321" {
		t.Fatalf("variant token not merged, got %q", got)
	}
	if got := cfg.Tokens["surface"]; got != "#ffffff" {
		t.Fatalf("base token lost, got %q", got)
	}
	if got := cfg.CSSVars["--brand"]; got != "#654321" {
		t.Fatalf("css var not derived from merged tokens, got %q", got)
	}
	if cfg.AssetURL == nil {
		t.Fatal("expected asset resolver")
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("variant asset should win and join the prefix, got %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
}

func TestDeriveTheme_NilSelection(t *testing.T) {
	if cfg := render.DeriveTheme(nil, render.DefaultThemeFallbacks()); cfg != nil {
		t.Fatalf("expected nil config, got %+v", cfg)
	}
}

func TestDeriveTheme_Manifestless(t *testing.T) {
	cfg := render.DeriveTheme(&theme.Selection{Theme: "bare"}, map[string]string{
		"forms.input": "templates/forms/input.tpl",
	})
	if cfg == nil {
		t.Fatal("expected renderer config")
	}
	if got := cfg.Partials["forms.input"]; got != "templates/forms/input.tpl" {
		t.Fatalf("fallbacks should survive a nil manifest, got %q", got)
	}
	if got := cfg.AssetURL("anything"); got != "" {
		t.Fatalf("manifestless assets should resolve empty, got %q", got)
	}
}
