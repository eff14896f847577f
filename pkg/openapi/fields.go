package openapi

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/model"
)

// longTextThreshold is the maxLength above which a plain string property is
// promoted to a textarea.
const longTextThreshold = 255

// errSkipProperty marks schema shapes a flat form cannot collect, such as
// nested objects and arrays. Skipping is silent; an explicit hint that cannot
// be honored is a real error instead.
var errSkipProperty = errors.New("property has no field representation")

// fieldsFromSchema flattens the request schema into an ordered descriptor
// list. Property maps carry no order, so the schema-level x-formflow order
// hint decides prompt order; properties it does not mention follow sorted by
// name.
func fieldsFromSchema(schema *openapi3.Schema) ([]model.Field, error) {
	flat := flattenObject(schema)
	if len(flat.properties) == 0 {
		return nil, nil
	}

	names, err := propertyOrder(flat)
	if err != nil {
		return nil, err
	}

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		field, err := buildField(name, flat.properties[name], flat.required[name])
		if errors.Is(err, errSkipProperty) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// flatObject is a request schema with its allOf branches folded in.
type flatObject struct {
	properties map[string]*openapi3.Schema
	required   map[string]bool
	extensions map[string]any
}

func flattenObject(schema *openapi3.Schema) flatObject {
	flat := flatObject{
		properties: make(map[string]*openapi3.Schema),
		required:   make(map[string]bool),
		extensions: make(map[string]any),
	}
	mergeObject(&flat, schema)
	return flat
}

func mergeObject(flat *flatObject, schema *openapi3.Schema) {
	if schema == nil {
		return
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		if _, exists := flat.properties[name]; exists {
			continue
		}
		flat.properties[name] = ref.Value
	}
	for _, name := range schema.Required {
		flat.required[name] = true
	}
	if ext := vendorExtension(schema.Extensions); ext != nil {
		for key, value := range ext {
			if _, exists := flat.extensions[key]; !exists {
				flat.extensions[key] = value
			}
		}
	}
	for _, ref := range schema.AllOf {
		if ref == nil || ref.Value == nil {
			continue
		}
		mergeObject(flat, ref.Value)
	}
}

func propertyOrder(flat flatObject) ([]string, error) {
	remaining := make(map[string]bool, len(flat.properties))
	for name := range flat.properties {
		remaining[name] = true
	}

	var ordered []string
	if hint, ok := flat.extensions["order"]; ok {
		list, ok := hint.([]any)
		if !ok {
			return nil, errors.New("order hint must be a list of property names")
		}
		for _, entry := range list {
			name, ok := entry.(string)
			if !ok {
				return nil, errors.New("order hint must be a list of property names")
			}
			if !remaining[name] {
				return nil, fmt.Errorf("order hint names unknown property %q", name)
			}
			ordered = append(ordered, name)
			remaining[name] = false
		}
	}

	var rest []string
	for name, pending := range remaining {
		if pending {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...), nil
}

func buildField(name string, src *openapi3.Schema, required bool) (model.Field, error) {
	ext := propertyExtension(src)
	widget, _ := stringHint(ext, "widget")

	fieldType, err := deriveType(src, widget)
	if err != nil {
		return model.Field{}, err
	}

	field := model.Field{
		Name:        name,
		Type:        fieldType,
		Label:       src.Title,
		Description: src.Description,
		Required:    required,
		Default:     src.Default,
		Rules:       constraintRules(fieldType, src),
	}
	if placeholder, ok := stringHint(ext, "placeholder"); ok {
		field.Placeholder = placeholder
	}

	condition, err := conditionHint(ext)
	if err != nil {
		return model.Field{}, err
	}
	field.Condition = condition

	switch {
	case fieldType.ChoiceLike():
		field.Options = enumOptions(src.Enum)
	case fieldType == model.FieldTypeRating:
		field.Max = ratingMax(src)
	}
	return field, nil
}

// deriveType maps the schema's type, format, and widget hint onto one of the
// supported field types. Object and array properties have no flat rendering
// and are skipped.
func deriveType(src *openapi3.Schema, widget string) (model.FieldType, error) {
	switch firstSchemaType(src.Type) {
	case "boolean":
		if widget != "" && widget != string(model.FieldTypeCheckbox) {
			return "", fmt.Errorf("widget %q does not apply to boolean properties", widget)
		}
		return model.FieldTypeCheckbox, nil
	case "integer", "number":
		switch widget {
		case "", string(model.FieldTypeText):
			return model.FieldTypeText, nil
		case string(model.FieldTypeRating):
			return model.FieldTypeRating, nil
		}
		return "", fmt.Errorf("widget %q does not apply to numeric properties", widget)
	case "string", "":
		return deriveStringType(src, widget)
	}
	return "", errSkipProperty
}

func deriveStringType(src *openapi3.Schema, widget string) (model.FieldType, error) {
	if len(src.Enum) > 0 {
		switch widget {
		case "", string(model.FieldTypeSelect):
			return model.FieldTypeSelect, nil
		case string(model.FieldTypeRadio):
			return model.FieldTypeRadio, nil
		}
		return "", fmt.Errorf("widget %q does not apply to enum properties", widget)
	}

	if widget != "" {
		hinted := model.FieldType(widget)
		if !hinted.Valid() || hinted.ChoiceLike() ||
			hinted == model.FieldTypeCheckbox || hinted == model.FieldTypeRating {
			return "", fmt.Errorf("widget %q does not apply to string properties", widget)
		}
		return hinted, nil
	}

	switch src.Format {
	case "email":
		return model.FieldTypeEmail, nil
	case "password":
		return model.FieldTypePassword, nil
	case "date", "date-time":
		return model.FieldTypeDate, nil
	case "binary", "byte":
		return model.FieldTypeFile, nil
	}
	if src.MaxLength != nil && *src.MaxLength > longTextThreshold {
		return model.FieldTypeTextarea, nil
	}
	return model.FieldTypeText, nil
}

// constraintRules translates the schema's validation keywords into rule
// hints. Length and pattern keywords apply to text-like fields; numeric
// bounds apply to the text fields numeric schemas map onto. Rating bounds
// live on the field itself, not in rules.
func constraintRules(fieldType model.FieldType, src *openapi3.Schema) []model.Rule {
	if !fieldType.TextLike() {
		return nil
	}

	var rules []model.Rule
	if src.MinLength > 0 {
		rules = append(rules, model.Rule{
			Kind:   model.RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(src.MinLength, 10)},
		})
	}
	if src.MaxLength != nil {
		rules = append(rules, model.Rule{
			Kind:   model.RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*src.MaxLength, 10)},
		})
	}
	if src.Pattern != "" {
		rules = append(rules, model.Rule{
			Kind:   model.RulePattern,
			Params: map[string]string{"pattern": src.Pattern},
		})
	}
	if src.Min != nil {
		rules = append(rules, model.Rule{
			Kind:   model.RuleMin,
			Params: map[string]string{"value": formatBound(*src.Min)},
		})
	}
	if src.Max != nil {
		rules = append(rules, model.Rule{
			Kind:   model.RuleMax,
			Params: map[string]string{"value": formatBound(*src.Max)},
		})
	}
	return rules
}

func enumOptions(enum []any) []model.Option {
	options := make([]model.Option, 0, len(enum))
	for _, entry := range enum {
		value := optionValue(entry)
		if value == "" {
			continue
		}
		options = append(options, model.Option{Value: value})
	}
	return options
}

func optionValue(entry any) string {
	switch v := entry.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatBound(v)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func ratingMax(src *openapi3.Schema) int {
	if src.Max == nil {
		return 5
	}
	max := int(math.Round(*src.Max))
	if max < 1 {
		return 5
	}
	return max
}

func formatBound(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	slice := types.Slice()
	if len(slice) == 0 {
		return ""
	}
	return slice[0]
}

// propertyExtension collects the property's x-formflow hints, folding in
// hints declared on allOf branches the way component composition leaves them.
func propertyExtension(src *openapi3.Schema) map[string]any {
	merged := vendorExtension(src.Extensions)
	for _, ref := range src.AllOf {
		if ref == nil || ref.Value == nil {
			continue
		}
		for key, value := range propertyExtension(ref.Value) {
			if merged == nil {
				merged = make(map[string]any)
			}
			if _, exists := merged[key]; !exists {
				merged[key] = value
			}
		}
	}
	return merged
}

func vendorExtension(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	value, ok := raw[ExtensionKey]
	if !ok {
		return nil
	}
	mapped, ok := value.(map[string]any)
	if !ok || len(mapped) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(mapped))
	for key, entry := range mapped {
		cloned[key] = entry
	}
	return cloned
}

func stringHint(ext map[string]any, key string) (string, bool) {
	if ext == nil {
		return "", false
	}
	value, ok := ext[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// conditionHint reads the visibleWhen hint: an object naming the controlling
// field and the value that reveals this one.
func conditionHint(ext map[string]any) (*model.Condition, error) {
	if ext == nil {
		return nil, nil
	}
	raw, ok := ext["visibleWhen"]
	if !ok {
		return nil, nil
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("visibleWhen hint must be an object with field and value")
	}
	field, ok := mapped["field"].(string)
	if !ok || field == "" {
		return nil, errors.New("visibleWhen hint needs a controlling field name")
	}
	value, ok := mapped["value"]
	if !ok {
		return nil, fmt.Errorf("visibleWhen hint on %q needs a value", field)
	}
	return &model.Condition{Field: field, Value: value}, nil
}
