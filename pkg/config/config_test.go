package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/model"
)

const yamlDocument = `
title: Create account
submitLabel: Join
theme: acme
fields:
  - name: email
    type: email
    required: true
  - name: country
    type: select
    default: us
    options:
      - value: us
        label: United States
      - value: other
        label: Other
  - name: customCountry
    type: text
    condition:
      field: country
      value: other
`

const jsonDocument = `{
  "title": "Feedback",
  "fields": [
    {"name": "stars", "type": "rating", "max": 5, "default": 3},
    {"name": "comments", "type": "textarea"}
  ]
}`

func TestParse_YAMLAndJSON(t *testing.T) {
	t.Parallel()

	doc, err := config.Parse([]byte(yamlDocument), "account.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if doc.Title != "Create account" || doc.Theme != "acme" {
		t.Fatalf("header not decoded: %+v", doc)
	}
	if len(doc.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(doc.Fields))
	}
	if doc.Fields[2].Condition == nil || doc.Fields[2].Condition.Field != "country" {
		t.Fatalf("condition not decoded: %+v", doc.Fields[2])
	}

	doc, err = config.Parse([]byte(jsonDocument), "feedback.json")
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if doc.Fields[0].Type != model.FieldTypeRating || doc.Fields[0].Max != 5 {
		t.Fatalf("rating field not decoded: %+v", doc.Fields[0])
	}

	if _, err := config.Parse([]byte("\n  \n"), "empty.yaml"); err == nil {
		t.Fatal("expected empty document to fail")
	}
	if _, err := config.Parse([]byte("{not: [valid"), "broken.json"); err == nil {
		t.Fatal("expected malformed document to fail")
	}
}

func TestDocument_DefinitionCompiles(t *testing.T) {
	t.Parallel()

	doc, err := config.Parse([]byte(yamlDocument), "account.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	def, err := doc.Definition()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if def.Title != "Create account" {
		t.Fatalf("title lost in compile: %q", def.Title)
	}
	field, ok := def.Lookup("email")
	if !ok || field.Label != "Email" {
		t.Fatalf("expected derived label for email, got %+v", field)
	}

	// A document that parses but violates the model rules must not compile.
	bad := config.Document{Fields: []model.Field{
		{Name: "choice", Type: model.FieldTypeRadio},
	}}
	if _, err := bad.Definition(); err == nil {
		t.Fatal("expected optionless radio to fail compilation")
	}
}

func TestLoadDirFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/account.yaml":  {Data: []byte(yamlDocument)},
		"forms/feedback.json": {Data: []byte(jsonDocument)},
		"forms/notes.txt":     {Data: []byte("ignored")},
	}

	docs, err := config.LoadDirFS(fsys)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}

	want := []string{"forms/account", "forms/feedback"}
	if diff := cmp.Diff(want, config.Keys(docs)); diff != "" {
		t.Fatalf("document keys mismatch (-want +got):\n%s", diff)
	}
	if docs["forms/feedback"].Title != "Feedback" {
		t.Fatalf("unexpected document content: %+v", docs["forms/feedback"])
	}
}

func TestHolder_ReloadKeepsLastGoodDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "account.yaml")
	writeFile(t, path, yamlDocument)

	holder, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new holder: %v", err)
	}
	defer holder.Stop()

	if got := holder.Document().Title; got != "Create account" {
		t.Fatalf("initial document not loaded, got %q", got)
	}
	if holder.Definition() == nil {
		t.Fatal("expected compiled definition")
	}

	var notified []string
	holder.OnChange(func(doc config.Document) {
		notified = append(notified, doc.Title)
	})

	writeFile(t, path, "title: Renamed\nfields:\n  - name: email\n    type: email\n")
	if err := holder.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := holder.Document().Title; got != "Renamed" {
		t.Fatalf("reload did not swap the document, got %q", got)
	}
	if len(notified) != 1 || notified[0] != "Renamed" {
		t.Fatalf("change listener not invoked, got %v", notified)
	}

	// Parse failure keeps the last good document.
	writeFile(t, path, "{broken")
	if err := holder.Reload(); err == nil {
		t.Fatal("expected reload of a broken document to fail")
	}
	if got := holder.Document().Title; got != "Renamed" {
		t.Fatalf("broken reload should keep the old document, got %q", got)
	}

	// Compile failure keeps the last good document too.
	writeFile(t, path, "fields:\n  - name: choice\n    type: radio\n")
	if err := holder.Reload(); err == nil {
		t.Fatal("expected reload of an uncompilable document to fail")
	}
	if got := holder.Document().Title; got != "Renamed" {
		t.Fatalf("uncompilable reload should keep the old document, got %q", got)
	}
	if len(notified) != 1 {
		t.Fatalf("failed reloads must not notify listeners, got %v", notified)
	}
}

func TestHolder_InitialLoadMustSucceed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "fields:\n  - name: choice\n    type: radio\n")

	if _, err := config.NewHolder(path, zerolog.Nop()); err == nil {
		t.Fatal("expected holder construction to fail on a bad document")
	}
	if _, err := config.NewHolder(filepath.Join(dir, "missing.yaml"), zerolog.Nop()); err == nil {
		t.Fatal("expected holder construction to fail on a missing file")
	}
}

func TestHolder_WatchAndStop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "account.yaml")
	writeFile(t, path, yamlDocument)

	holder, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new holder: %v", err)
	}
	if err := holder.Watch(); err != nil {
		t.Fatalf("watch: %v", err)
	}
	holder.Stop()
	holder.Stop() // second stop is a no-op
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
