package visibility

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// RuleAttribute names the field attribute that carries an optional rule
// expression evaluated on top of the structural condition. Hosts wire an
// Evaluator through the controller to activate it.
const RuleAttribute = "visibleWhen"

// Set holds the names of the fields currently active. It is a derived value:
// recomputed from the definition and a value snapshot, never stored.
type Set map[string]struct{}

// Has reports whether the named field is active.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the active field names sorted for deterministic output.
func (s Set) Names() []string {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Context provides inputs to an Evaluator: the current value snapshot plus
// host extras such as roles or feature flags, addressed with an "extras."
// prefix inside rule expressions.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// Evaluator decides whether a field is visible given a rule expression.
// Implementations must be pure with respect to the supplied context.
type Evaluator interface {
	Eval(field, rule string, ctx Context) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field, rule string, ctx Context) (bool, error) {
	return fn(field, rule, ctx)
}

// Resolve computes the active field set for a value snapshot. A field is
// active when it has no condition, or when its condition's target is itself
// active and holds the condition value under the target's typed equality.
// Conditions referencing unknown fields resolve inactive (fail-closed). The
// walk follows the dependency order fixed at build time, so one pass settles
// every field.
func Resolve(def *model.Definition, values map[string]any) Set {
	set, _ := ResolveWith(def, values, nil, nil)
	return set
}

// ResolveWith is Resolve plus an optional rule evaluator applied to fields
// carrying a rule expression attribute. Evaluator failures leave the field
// inactive and are reported to the caller; the returned set is always
// usable.
func ResolveWith(def *model.Definition, values map[string]any, eval Evaluator, extras map[string]any) (Set, error) {
	set := make(Set, def.Len())
	if def.Len() == 0 {
		return set, nil
	}

	ctx := Context{Values: values, Extras: extras}
	var firstErr error

	for _, name := range def.Order() {
		field, ok := def.Lookup(name)
		if !ok {
			continue
		}
		if !conditionMet(def, set, field, values) {
			continue
		}
		if eval != nil {
			if rule, ok := field.Attributes[RuleAttribute]; ok && strings.TrimSpace(rule) != "" {
				visible, err := eval.Eval(name, rule, ctx)
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("visibility: field %q: %w", name, err)
					}
					continue
				}
				if !visible {
					continue
				}
			}
		}
		set[name] = struct{}{}
	}
	return set, firstErr
}

func conditionMet(def *model.Definition, active Set, field model.Field, values map[string]any) bool {
	cond := field.Condition
	if cond == nil {
		return true
	}
	target, ok := def.Lookup(cond.Field)
	if !ok {
		return false
	}
	if !active.Has(target.Name) {
		return false
	}
	return equalForType(target.Type, values[target.Name], cond.Value)
}

// equalForType compares a stored value against a condition value using the
// representation the target field's type stores: numbers for ratings,
// booleans for checkboxes, strings for everything else.
func equalForType(t model.FieldType, current, want any) bool {
	switch t {
	case model.FieldTypeRating:
		got, okGot := asNumber(current)
		expected, okWant := asNumber(want)
		return okGot && okWant && got == expected
	case model.FieldTypeCheckbox:
		got, okGot := asBool(current)
		expected, okWant := asBool(want)
		return okGot && okWant && got == expected
	default:
		return asString(current) == asString(want)
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return parsed, err == nil
	default:
		return false, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
