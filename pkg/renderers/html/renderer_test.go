package html_test

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	htmlrenderer "github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

func TestRenderer_GoldenMarkup(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "signup_form.json"))
	def := testsupport.MustCompile(t, form)

	view := render.NewView(def, map[string]any{
		"email":         "ada@example.com",
		"country":       "us",
		"customCountry": "Atlantis",
		"newsletter":    true,
		"stars":         2,
	}, map[string][]string{
		"email": {"Email already registered"},
	})
	view.FormID = "signup"
	view.FormErrors = []string{"Please fix the errors below"}

	output, err := htmlrenderer.New().Render(testsupport.Context(), view, render.Options{
		Method:     "PUT",
		Action:     "/signup",
		ClassNames: def.ClassNames,
		Theme:      testThemeConfig(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "signup_form.golden.html")
	if testsupport.WriteMaybeGolden(t, goldenPath, output) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, string(output)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_HiddenFieldsStayOut(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "signup_form.json"))
	def := testsupport.MustCompile(t, form)

	hidden := render.NewView(def, map[string]any{"country": "us", "customCountry": "Atlantis"}, nil)
	out, err := htmlrenderer.New().Render(testsupport.Context(), hidden, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), `data-field="customCountry"`) {
		t.Error("hidden field rendered while its condition does not hold")
	}
	if strings.Contains(string(out), "Atlantis") {
		t.Error("retained hidden value leaked into markup")
	}

	revealed := render.NewView(def, map[string]any{"country": "other", "customCountry": "Atlantis"}, nil)
	out, err = htmlrenderer.New().Render(testsupport.Context(), revealed, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `data-field="customCountry"`) {
		t.Error("conditional field missing after its condition became true")
	}
	if !strings.Contains(string(out), `value="Atlantis"`) {
		t.Error("revealed field lost its retained value")
	}
}

func TestRenderer_EscapesUserData(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "signup_form.json"))
	def := testsupport.MustCompile(t, form)

	view := render.NewView(def, map[string]any{
		"email": `<script>alert("x")</script>`,
	}, map[string][]string{
		"email": {`"quotes" & <angles>`},
	})

	out, err := htmlrenderer.New().Render(testsupport.Context(), view, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)
	if strings.Contains(markup, "<script>") {
		t.Error("script tag survived escaping")
	}
	if !strings.Contains(markup, "&lt;script&gt;") {
		t.Error("value was not entity-escaped")
	}
	if !strings.Contains(markup, "&#34;quotes&#34; &amp; &lt;angles&gt;") {
		t.Error("error message was not entity-escaped")
	}
	// Compiled descriptions are sanitized upstream and land unescaped.
	if !strings.Contains(markup, "Tell us about <em>you</em>.") {
		t.Error("sanitized description should be emitted raw")
	}
}

func TestRenderer_DefaultsWithoutTheme(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "signup_form.json"))
	def := testsupport.MustCompile(t, form)

	view := render.NewView(def, nil, nil)
	out, err := htmlrenderer.New().Render(testsupport.Context(), view, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)
	if !strings.HasPrefix(markup, `<form class="formflow-form" method="post">`) {
		t.Errorf("form open = %q, want default class and method with no action", firstLine(markup))
	}
	if strings.Contains(markup, "_method") {
		t.Error("method override input rendered for native POST")
	}
	if strings.Contains(markup, "<link") {
		t.Error("stylesheet link rendered without a theme")
	}
}

func TestRenderer_ExtraStylesheet(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "signup_form.json"))
	def := testsupport.MustCompile(t, form)

	renderer := htmlrenderer.New(htmlrenderer.WithStylesheet("/assets/app.css"))
	out, err := renderer.Render(testsupport.Context(), render.NewView(def, nil, nil), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<link rel="stylesheet" href="/assets/app.css">`) {
		t.Error("configured stylesheet link missing")
	}
}

func TestRenderer_TemplateOverride(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "signup_form.json"))
	def := testsupport.MustCompile(t, form)

	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{
		"custom/form.tpl": &fstest.MapFile{
			Data: []byte(`{{ title }}|{{ submitLabel }}|{{ fields|length }} fields`),
		},
	}))
	if err != nil {
		t.Fatalf("new template engine: %v", err)
	}

	renderer := htmlrenderer.New(htmlrenderer.WithTemplateRenderer(engine))
	view := render.NewView(def, map[string]any{"country": "us"}, nil)
	out, err := renderer.Render(testsupport.Context(), view, render.Options{
		Theme: &theme.RendererConfig{
			Partials: map[string]string{"forms.form": "custom/form.tpl"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// customCountry is hidden for country=us, leaving six active fields.
	if got := string(out); got != "Create account|Sign up|6 fields" {
		t.Fatalf("template output = %q", got)
	}
}

func TestRenderer_Identity(t *testing.T) {
	renderer := htmlrenderer.New()
	if renderer.Name() != "html" {
		t.Errorf("Name() = %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Errorf("ContentType() = %q", renderer.ContentType())
	}
}

func testThemeConfig() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{
			"--brand":  "#123456",
			"--accent": "#ff8800",
		},
		AssetURL: func(key string) string {
			if key != "theme.css" {
				return ""
			}
			return "/assets/themes/acme/theme.css"
		},
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
