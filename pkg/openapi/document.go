package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/model"
)

// ExtensionKey is the vendor extension namespace read by this package.
// Extensions outside the namespace are ignored.
const ExtensionKey = "x-formflow"

// requestMediaTypes lists the request body content types that can describe a
// form, in preference order.
var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Document is a parsed OpenAPI document ready for form derivation.
type Document struct {
	spec *openapi3.T
}

// Operation is the per-operation metadata surfaced when enumerating a
// document. ID is the operationId when declared, otherwise a synthetic
// "method:path" key.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Spec exposes the underlying kin-openapi document for callers that need
// details beyond form derivation.
func (d *Document) Spec() *openapi3.T {
	if d == nil {
		return nil
	}
	return d.spec
}

// Validate runs the full kin-openapi document validation. Example payloads
// are not validated; descriptor derivation never reads them.
func (d *Document) Validate(ctx context.Context) error {
	if d == nil || d.spec == nil {
		return errors.New("openapi: document is not loaded")
	}
	if err := d.spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi: validate document: %w", err)
	}
	return nil
}

// Operations enumerates every operation in the document sorted by ID.
func (d *Document) Operations() []Operation {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return nil
	}

	var out []Operation
	walkOperations(d.spec, func(method, path string, op *openapi3.Operation) {
		out = append(out, Operation{
			ID:      operationID(method, path, op),
			Method:  method,
			Path:    path,
			Summary: op.Summary,
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Form derives a form document for one operation. The operation is matched by
// its operationId, or by the synthetic "method:path" key when the document
// declares none.
func (d *Document) Form(operationID string) (model.Form, error) {
	if d == nil || d.spec == nil {
		return model.Form{}, errors.New("openapi: document is not loaded")
	}
	if operationID == "" {
		return model.Form{}, errors.New("openapi: operation id is required")
	}

	op, err := d.findOperation(operationID)
	if err != nil {
		return model.Form{}, err
	}
	return formFromOperation(operationID, op)
}

// Forms derives form documents for every operation that carries a usable
// request schema. Operations without one are left out; a document yielding no
// forms at all is an error.
func (d *Document) Forms() (map[string]model.Form, error) {
	if d == nil || d.spec == nil {
		return nil, errors.New("openapi: document is not loaded")
	}

	forms := make(map[string]model.Form)
	var deriveErr error
	walkOperations(d.spec, func(method, path string, op *openapi3.Operation) {
		if deriveErr != nil {
			return
		}
		id := operationID(method, path, op)
		if requestSchema(op) == nil {
			return
		}
		form, err := formFromOperation(id, op)
		if err != nil {
			deriveErr = err
			return
		}
		forms[id] = form
	})
	if deriveErr != nil {
		return nil, deriveErr
	}
	if len(forms) == 0 {
		return nil, errors.New("openapi: no operations with request schemas found")
	}
	return forms, nil
}

func (d *Document) findOperation(id string) (*openapi3.Operation, error) {
	var found *openapi3.Operation
	walkOperations(d.spec, func(method, path string, op *openapi3.Operation) {
		if found != nil {
			return
		}
		if operationID(method, path, op) == id {
			found = op
		}
	})
	if found == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", id)
	}
	return found, nil
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op != nil && op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

// walkOperations visits every non-nil operation. Paths come from a map, so
// iteration order is unspecified; callers needing determinism sort afterward.
func walkOperations(spec *openapi3.T, visit func(method, path string, op *openapi3.Operation)) {
	if spec == nil || spec.Paths == nil {
		return
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		methods := []struct {
			name string
			op   *openapi3.Operation
		}{
			{"GET", item.Get},
			{"PUT", item.Put},
			{"POST", item.Post},
			{"DELETE", item.Delete},
			{"PATCH", item.Patch},
			{"HEAD", item.Head},
			{"OPTIONS", item.Options},
			{"TRACE", item.Trace},
		}
		for _, method := range methods {
			if method.op == nil {
				continue
			}
			visit(method.name, path, method.op)
		}
	}
}

// requestSchema picks the schema describing the operation's request body,
// honoring the media type preference order. Returns nil when the operation
// has nothing a form could collect.
func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	if len(content) == 0 {
		return nil
	}
	for _, mediaType := range requestMediaTypes {
		mt, ok := content[mediaType]
		if !ok || mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
			continue
		}
		return mt.Schema.Value
	}
	return nil
}

func formFromOperation(id string, op *openapi3.Operation) (model.Form, error) {
	schema := requestSchema(op)
	if schema == nil {
		return model.Form{}, fmt.Errorf("openapi: operation %q has no request schema", id)
	}

	fields, err := fieldsFromSchema(schema)
	if err != nil {
		return model.Form{}, fmt.Errorf("openapi: operation %q: %w", id, err)
	}
	if len(fields) == 0 {
		return model.Form{}, fmt.Errorf("openapi: operation %q yields no form fields", id)
	}

	form := model.Form{
		Title:  op.Summary,
		Fields: fields,
	}
	ext := vendorExtension(op.Extensions)
	if title, ok := stringHint(ext, "title"); ok {
		form.Title = title
	}
	if label, ok := stringHint(ext, "submitLabel"); ok {
		form.SubmitLabel = label
	}
	return form, nil
}
