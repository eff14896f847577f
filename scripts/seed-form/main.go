// Writes a starter form definition document to seed a new integration. The
// output compiles as-is and covers the common field shapes, ready to edit.
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/model"
)

func main() {
	output := flag.String("out", "form.yaml", "where to write the document")
	flag.Parse()

	doc := config.Document{
		Title:       "New signup",
		SubmitLabel: "Sign up",
		Fields: []model.Field{
			{Name: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, Placeholder: "you@example.com"},
			{Name: "password", Type: model.FieldTypePassword, Label: "Password", Required: true, Rules: []model.Rule{
				{Kind: model.RuleMinLength, Params: map[string]string{"value": "12"}},
			}},
			{Name: "plan", Type: model.FieldTypeSelect, Label: "Plan", Default: "free", Options: []model.Option{
				{Value: "free", Label: "Free"},
				{Value: "team", Label: "Team"},
			}},
			{Name: "companyName", Type: model.FieldTypeText, Label: "Company name", Condition: &model.Condition{Field: "plan", Value: "team"}},
			{Name: "terms", Type: model.FieldTypeCheckbox, Label: "I accept the terms", Required: true},
		},
	}

	if _, err := doc.Definition(); err != nil {
		fmt.Fprintf(os.Stderr, "seed document does not compile: %v\n", err)
		os.Exit(1)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode document: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote starter form to %s\n", *output)
}
