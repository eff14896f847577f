// Package validation defines the black-box validator contract the form
// controller submits payloads through, plus a rules-driven implementation
// for hosts that have no external validation engine to inject.
package validation

import "context"

// Result carries the outcome of validating one payload. Errors maps field
// names to messages; a name absent from the map has no error.
type Result struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Validator checks a submission payload. The controller treats
// implementations as opaque: it forwards the active-field payload and
// surfaces whatever field errors come back, without inspecting rules.
type Validator interface {
	Validate(ctx context.Context, payload map[string]any) (Result, error)
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(ctx context.Context, payload map[string]any) (Result, error)

// Validate delegates to the underlying function.
func (fn ValidatorFunc) Validate(ctx context.Context, payload map[string]any) (Result, error) {
	return fn(ctx, payload)
}

// OK returns a passing result.
func OK() Result {
	return Result{Valid: true}
}

// Invalid builds a failing result from field errors.
func Invalid(errors map[string][]string) Result {
	return Result{Valid: false, Errors: errors}
}

// First returns the leading message for a field, or "" when the field has
// none. Hosts that display a single message per field use this.
func (r Result) First(name string) string {
	msgs := r.Errors[name]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}
