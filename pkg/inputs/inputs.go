// Package inputs maps each field type to its input strategy: the
// normalization applied to raw interaction input before storage, and the
// traits renderers dispatch on. The set of strategies is closed; the model
// builder rejects unknown field types before a registry is ever consulted.
package inputs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// NormalizeFunc converts raw interaction input into the value shape the
// store and validator expect. It must reject anything it cannot represent;
// rejected input never reaches storage.
type NormalizeFunc func(field model.Field, raw any) (any, error)

// Traits describe how a field type presents, letting renderers dispatch
// without switching on the type twice.
type Traits struct {
	Multiline bool
	Secret    bool
	Choice    bool
	HTMLType  string
}

// Input bundles the behaviour for one field type.
type Input struct {
	Type      model.FieldType
	Normalize NormalizeFunc
	Traits    Traits
}

// RatingToggle applies the toggle-off presentation rule: a click on the
// value already stored clears the rating to zero; any other click stores the
// clicked value. The rule lives here, in the presentation path; storing a
// value through a controller never toggles.
func RatingToggle(current, clicked int) int {
	if clicked == current {
		return 0
	}
	return clicked
}

func normalizeText(field model.Field, raw any) (any, error) {
	text, ok := stringify(raw)
	if !ok {
		return nil, &InputError{Field: field.Name, Reason: "expected a text value"}
	}
	return text, nil
}

func normalizeCheckbox(field model.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		switch strings.ToLower(trimmed) {
		case "", "off":
			return false, nil
		case "on":
			return true, nil
		}
		parsed, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, &InputError{Field: field.Name, Reason: fmt.Sprintf("%q is not a boolean", v)}
		}
		return parsed, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return nil, &InputError{Field: field.Name, Reason: "expected a boolean value"}
}

// normalizeChoice accepts the empty string as "no selection"; any other
// value must match one of the declared options.
func normalizeChoice(field model.Field, raw any) (any, error) {
	value, ok := stringify(raw)
	if !ok {
		return nil, &InputError{Field: field.Name, Reason: "expected an option value"}
	}
	if value == "" {
		return "", nil
	}
	if !field.HasOption(value) {
		return nil, &InputError{Field: field.Name, Reason: fmt.Sprintf("%q is not one of the declared options", value)}
	}
	return value, nil
}

func normalizeRating(field model.Field, raw any) (any, error) {
	var value int
	switch v := raw.(type) {
	case nil:
		value = 0
	case int:
		value = v
	case int32:
		value = int(v)
	case int64:
		value = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, &InputError{Field: field.Name, Reason: "rating must be a whole number"}
		}
		value = int(v)
	case float32:
		return normalizeRating(field, float64(v))
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &InputError{Field: field.Name, Reason: fmt.Sprintf("%q is not a rating", v)}
		}
		value = parsed
	default:
		return nil, &InputError{Field: field.Name, Reason: "expected a rating value"}
	}
	if value < 0 || value > field.Max {
		return nil, &InputError{Field: field.Name, Reason: fmt.Sprintf("rating must be between 0 and %d", field.Max)}
	}
	return value, nil
}

// normalizeFile passes handles through untouched; only presence matters to
// the runtime. Slices of handles are accepted for multi-selection hosts.
func normalizeFile(field model.Field, raw any) (any, error) {
	return raw, nil
}

func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case []byte:
		return string(v), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
