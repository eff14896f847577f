package model

import (
	"fmt"
	"strings"
)

// Builder compiles descriptor lists into form definitions.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Sanitizer != nil {
		opts.Sanitizer = options.Sanitizer
	}
	return &Builder{opts: opts}
}

// Build validates the descriptor list, normalizes each field, and derives
// the dependency order the visibility resolver walks. Every invariant
// violation found is reported; a definition is never produced from a
// partially valid list.
func (b *Builder) Build(form Form) (*Definition, error) {
	issues := validateFields(form.Fields)
	if len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}

	fields := make([]Field, len(form.Fields))
	index := make(map[string]int, len(form.Fields))
	for i, field := range form.Fields {
		fields[i] = b.normalizeField(field)
		index[field.Name] = i
	}

	order, err := dependencyOrder(fields, index)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Title:       strings.TrimSpace(form.Title),
		SubmitLabel: strings.TrimSpace(form.SubmitLabel),
		ClassNames:  cloneStringMap(form.ClassNames),
		Fields:      fields,
		index:       index,
		order:       order,
	}
	return def, nil
}

// normalizeField fills derived attributes and strips the ones that do not
// apply to the field's type. Inapplicable placeholder, options, and max are
// dropped rather than rejected; the reject set is limited to the invariants
// validateFields enforces.
func (b *Builder) normalizeField(field Field) Field {
	out := field
	out.Name = strings.TrimSpace(field.Name)

	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = b.opts.Labeler(out.Name)
	}
	out.Label = b.opts.Sanitizer(label)
	out.Description = b.opts.Sanitizer(strings.TrimSpace(field.Description))

	if !out.Type.TextLike() {
		out.Placeholder = ""
	}
	if !out.Type.ChoiceLike() {
		out.Options = nil
	}
	if out.Type != FieldTypeRating {
		out.Max = 0
	}

	if len(out.Options) > 0 {
		options := make([]Option, len(out.Options))
		for i, opt := range out.Options {
			options[i] = opt
			if strings.TrimSpace(options[i].Label) == "" {
				options[i].Label = options[i].Value
			}
		}
		out.Options = options
	}

	if len(out.Rules) > 0 {
		rules := make([]Rule, len(out.Rules))
		copy(rules, out.Rules)
		out.Rules = rules
	}
	out.Attributes = cloneStringMap(field.Attributes)
	if out.Condition != nil {
		cond := *field.Condition
		cond.Field = strings.TrimSpace(cond.Field)
		out.Condition = &cond
	}
	return out
}

func validateFields(fields []Field) []string {
	var issues []string
	seen := make(map[string]struct{}, len(fields))

	for i, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			issues = append(issues, fmt.Sprintf("field %d: name is required", i))
			continue
		}
		if _, dup := seen[name]; dup {
			issues = append(issues, fmt.Sprintf("field %q: duplicate name", name))
			continue
		}
		seen[name] = struct{}{}

		if !field.Type.Valid() {
			issues = append(issues, fmt.Sprintf("field %q: unsupported type %q", name, field.Type))
			continue
		}
		if field.Type.ChoiceLike() && len(field.Options) == 0 {
			issues = append(issues, fmt.Sprintf("field %q: %s fields require options", name, field.Type))
		}
		if field.Type == FieldTypeRating && field.Max < 1 {
			issues = append(issues, fmt.Sprintf("field %q: rating fields require max >= 1", name))
		}
		if field.Condition != nil {
			target := strings.TrimSpace(field.Condition.Field)
			switch target {
			case "":
				issues = append(issues, fmt.Sprintf("field %q: condition requires a target field", name))
			case name:
				issues = append(issues, fmt.Sprintf("field %q: condition references itself", name))
			}
		}
		for _, rule := range field.Rules {
			if !knownRuleKind(rule.Kind) {
				issues = append(issues, fmt.Sprintf("field %q: unknown rule kind %q", name, rule.Kind))
			}
		}
	}
	return issues
}

func knownRuleKind(kind string) bool {
	switch kind {
	case RuleRequired, RuleMin, RuleMax, RuleMinLength, RuleMaxLength, RulePattern:
		return true
	}
	return false
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
