package model

// FieldType enumerates the closed set of input kinds the runtime renders.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeSelect   FieldType = "select"
	FieldTypeFile     FieldType = "file"
	FieldTypeRating   FieldType = "rating"
)

// KnownFieldTypes returns the supported field types in stable order.
func KnownFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypePassword,
		FieldTypeDate,
		FieldTypeTextarea,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeSelect,
		FieldTypeFile,
		FieldTypeRating,
	}
}

// Valid reports whether the type is one of the supported variants.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypePassword, FieldTypeDate,
		FieldTypeTextarea, FieldTypeCheckbox, FieldTypeRadio, FieldTypeSelect,
		FieldTypeFile, FieldTypeRating:
		return true
	}
	return false
}

// TextLike reports whether values for the type are free-form strings.
func (t FieldType) TextLike() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypePassword, FieldTypeDate, FieldTypeTextarea:
		return true
	}
	return false
}

// ChoiceLike reports whether the type draws its value from declared options.
func (t FieldType) ChoiceLike() bool {
	return t == FieldTypeRadio || t == FieldTypeSelect
}

const (
	RuleRequired  = "required"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
)

// Rule is a declarative validation constraint attached to a field. Numeric
// bounds and length limits encode their threshold in Params["value"]; pattern
// rules keep the expression in Params["pattern"]. Rules are hints for the
// built-in rules validator; hosts supplying their own validator may ignore
// them entirely.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Option is one selectable choice for radio and select fields. Label falls
// back to Value when omitted.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Condition gates a field's visibility on another field's current value. The
// referenced field must not be conditioned, directly or transitively, on the
// field declaring the condition.
type Condition struct {
	Field string `json:"field" yaml:"field"`
	Value any    `json:"value" yaml:"value"`
}

// Field is one descriptor in a form definition. Struct fields carry JSON and
// YAML tags so definitions round-trip through document files unchanged.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Max         int               `json:"max,omitempty" yaml:"max,omitempty"`
	Condition   *Condition        `json:"condition,omitempty" yaml:"condition,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	Rules       []Rule            `json:"rules,omitempty" yaml:"rules,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// OptionValues returns the declared option values in declaration order.
func (f Field) OptionValues() []string {
	if len(f.Options) == 0 {
		return nil
	}
	values := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		values = append(values, opt.Value)
	}
	return values
}

// HasOption reports whether value matches one of the declared options.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Form is the document-level input to the builder: the ordered descriptor
// list plus presentation metadata passed through to renderers untouched.
type Form struct {
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	ClassNames  map[string]string `json:"classNames,omitempty" yaml:"classNames,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
}

// Definition is the compiled form: descriptors validated, labels filled,
// rich text sanitized, and the condition graph reduced to one topological
// order that visibility resolution reuses on every recomputation.
type Definition struct {
	Title       string            `json:"title,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty"`
	ClassNames  map[string]string `json:"classNames,omitempty"`
	Fields      []Field           `json:"fields"`

	index map[string]int
	order []string
}

// Lookup returns the named field and whether it exists.
func (d *Definition) Lookup(name string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}
	idx, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.Fields[idx], true
}

// Has reports whether the definition declares the named field.
func (d *Definition) Has(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[name]
	return ok
}

// Order returns a copy of the dependency order computed at build time. Every
// field appears exactly once; a field always follows the field it is
// conditioned on.
func (d *Definition) Order() []string {
	if d == nil || len(d.order) == 0 {
		return nil
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Defaults returns a fresh map of type-appropriate empty values, one entry
// per field: empty string for text-like and choice fields, false for
// checkboxes, zero for ratings, nil for files. Declared defaults are applied
// on top of these by the controller, not here.
func (d *Definition) Defaults() map[string]any {
	if d == nil {
		return map[string]any{}
	}
	values := make(map[string]any, len(d.Fields))
	for _, field := range d.Fields {
		values[field.Name] = EmptyValue(field.Type)
	}
	return values
}

// Len returns the number of declared fields.
func (d *Definition) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Fields)
}

// EmptyValue returns the zero value stored for a field type before any user
// interaction.
func EmptyValue(t FieldType) any {
	switch t {
	case FieldTypeCheckbox:
		return false
	case FieldTypeRating:
		return 0
	case FieldTypeFile:
		return nil
	default:
		return ""
	}
}
