package formflow_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	formflow "github.com/goliatone/go-formflow"
)

func TestNew_WiresDefaultRegistry(t *testing.T) {
	t.Parallel()

	controller := formflow.Must(formflow.New([]formflow.Field{
		{Name: "email", Type: formflow.FieldTypeEmail, Label: "Email", Required: true},
	}))

	out, err := controller.Render(context.Background(), "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)
	if !strings.Contains(markup, "<form") || !strings.Contains(markup, `name="email"`) {
		t.Fatalf("unexpected markup:\n%s", markup)
	}
}

func TestLoadController_CompilesDocument(t *testing.T) {
	t.Parallel()

	controller, err := formflow.LoadController(filepath.Join("testdata", "contact_form.yaml"))
	if err != nil {
		t.Fatalf("load controller: %v", err)
	}

	def := controller.Definition()
	if def.Title != "Contact us" || def.SubmitLabel != "Send message" {
		t.Fatalf("unexpected header: %q / %q", def.Title, def.SubmitLabel)
	}
	if !def.Has("message") {
		t.Fatal("expected message field")
	}
	if controller.Visible("customTopic") {
		t.Fatal("conditional field should start hidden")
	}

	if err := controller.SetValue("topic", "other"); err != nil {
		t.Fatalf("set topic: %v", err)
	}
	if !controller.Visible("customTopic") {
		t.Fatal("conditional field should be revealed")
	}
}

func TestOpenAPIController_DerivesForm(t *testing.T) {
	t.Parallel()

	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "Signups", "version": "1.0.0"},
  "paths": {
    "/register": {
      "post": {
        "operationId": "registerUser",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email"],
                "properties": {
                  "email": {"type": "string", "format": "email", "title": "Email"}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`
	path := filepath.Join(t.TempDir(), "signups.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	controller, err := formflow.OpenAPIController(context.Background(), path, "registerUser")
	if err != nil {
		t.Fatalf("openapi controller: %v", err)
	}
	field, ok := controller.Definition().Lookup("email")
	if !ok || field.Type != formflow.FieldTypeEmail || !field.Required {
		t.Fatalf("unexpected field %+v (present %v)", field, ok)
	}
}

func TestMust_PanicsOnError(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	formflow.Must(formflow.New([]formflow.Field{
		{Name: "broken", Type: "mystery"},
	}))
}
