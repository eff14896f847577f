package inputs

import "fmt"

// InputError reports interaction input a field's normalizer refused. The
// rejection happens before storage; the field keeps its prior valid value.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("inputs: field %q: %s", e.Field, e.Reason)
}
