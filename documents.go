package formflow

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/openapi"
)

// LoadController reads a form definition document (YAML or JSON) and compiles
// it into a controller. The document's theme and variant, when declared, are
// applied ahead of the caller's options.
func LoadController(path string, options ...FormOption) (*Controller, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return DocumentController(doc, options...)
}

// DocumentController compiles an already-loaded document.
func DocumentController(doc config.Document, options ...FormOption) (*Controller, error) {
	if doc.Theme != "" {
		options = append([]FormOption{form.WithTheme(doc.Theme, doc.Variant)}, options...)
	}
	return NewForm(doc.Form(), options...)
}

// OpenAPIController derives the form for one operation of an OpenAPI document
// and compiles it into a controller. The simplest entry point for callers
// that want a live form straight from a service contract.
func OpenAPIController(ctx context.Context, path, operationID string, options ...FormOption) (*Controller, error) {
	doc, err := openapi.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	f, err := doc.Form(operationID)
	if err != nil {
		return nil, err
	}
	return NewForm(f, options...)
}
