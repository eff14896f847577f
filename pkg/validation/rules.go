package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Rules validates payloads against the declarative rule hints a definition's
// fields carry. Fields absent from the payload are skipped entirely: an
// absent key means the field is inactive, and inactive fields are never
// validated. Required rules therefore fail only on present-but-empty values.
type Rules struct {
	fields map[string]compiledRules
}

type compiledRules struct {
	fieldType model.FieldType
	required  bool
	min       *float64
	max       *float64
	minLength *int
	maxLength *int
	pattern   *regexp.Regexp
}

// NewRules compiles the rule hints of every field in the definition. Patterns
// compile once here; an invalid pattern is a construction error, not a
// per-submission one.
func NewRules(def *model.Definition) (*Rules, error) {
	if def == nil {
		return nil, fmt.Errorf("validation: definition is required")
	}

	fields := make(map[string]compiledRules, def.Len())
	for _, field := range def.Fields {
		compiled := compiledRules{fieldType: field.Type, required: field.Required}
		for _, rule := range field.Rules {
			if err := applyRule(&compiled, rule); err != nil {
				return nil, fmt.Errorf("validation: field %q: %w", field.Name, err)
			}
		}
		fields[field.Name] = compiled
	}
	return &Rules{fields: fields}, nil
}

// MustRules mirrors NewRules but panics on construction errors.
func MustRules(def *model.Definition) *Rules {
	rules, err := NewRules(def)
	if err != nil {
		panic(err)
	}
	return rules
}

func applyRule(compiled *compiledRules, rule model.Rule) error {
	switch rule.Kind {
	case model.RuleRequired:
		compiled.required = true
	case model.RuleMin:
		value, err := ruleNumber(rule)
		if err != nil {
			return err
		}
		compiled.min = &value
	case model.RuleMax:
		value, err := ruleNumber(rule)
		if err != nil {
			return err
		}
		compiled.max = &value
	case model.RuleMinLength:
		value, err := ruleInt(rule)
		if err != nil {
			return err
		}
		compiled.minLength = &value
	case model.RuleMaxLength:
		value, err := ruleInt(rule)
		if err != nil {
			return err
		}
		compiled.maxLength = &value
	case model.RulePattern:
		raw := rule.Params["pattern"]
		if strings.TrimSpace(raw) == "" {
			return fmt.Errorf("pattern rule is missing its expression")
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", raw, err)
		}
		compiled.pattern = re
	default:
		return fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
	return nil
}

func ruleNumber(rule model.Rule) (float64, error) {
	raw := rule.Params["value"]
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s rule has invalid value %q", rule.Kind, raw)
	}
	return value, nil
}

func ruleInt(rule model.Rule) (int, error) {
	raw := rule.Params["value"]
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s rule has invalid value %q", rule.Kind, raw)
	}
	return value, nil
}

// Validate implements Validator.
func (r *Rules) Validate(ctx context.Context, payload map[string]any) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	errs := make(map[string][]string)
	for name, compiled := range r.fields {
		value, present := payload[name]
		if !present {
			continue
		}
		for _, msg := range compiled.check(value) {
			errs[name] = append(errs[name], msg)
		}
	}

	if len(errs) == 0 {
		return OK(), nil
	}
	return Invalid(errs), nil
}

func (c compiledRules) check(value any) []string {
	var msgs []string

	if c.required && isEmpty(c.fieldType, value) {
		msgs = append(msgs, "this field is required")
	}
	if isEmpty(c.fieldType, value) {
		// Bounds and patterns only apply once a value is present.
		return msgs
	}

	if c.min != nil || c.max != nil {
		if number, ok := toNumber(value); ok {
			if c.min != nil && number < *c.min {
				msgs = append(msgs, fmt.Sprintf("must be at least %s", formatNumber(*c.min)))
			}
			if c.max != nil && number > *c.max {
				msgs = append(msgs, fmt.Sprintf("must be no more than %s", formatNumber(*c.max)))
			}
		} else {
			msgs = append(msgs, "must be a number")
		}
	}

	if c.minLength != nil || c.maxLength != nil || c.pattern != nil {
		text, ok := value.(string)
		if !ok {
			msgs = append(msgs, "must be text")
			return msgs
		}
		length := utf8.RuneCountInString(text)
		if c.minLength != nil && length < *c.minLength {
			msgs = append(msgs, fmt.Sprintf("must have at least %d characters", *c.minLength))
		}
		if c.maxLength != nil && length > *c.maxLength {
			msgs = append(msgs, fmt.Sprintf("must have no more than %d characters", *c.maxLength))
		}
		if c.pattern != nil && !c.pattern.MatchString(text) {
			msgs = append(msgs, "does not match the expected format")
		}
	}
	return msgs
}

// isEmpty mirrors the stored empty value per field type: empty strings,
// unchecked boxes, zero ratings, and missing file handles all count.
func isEmpty(t model.FieldType, value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case int:
		return t == model.FieldTypeRating && v == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
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

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
