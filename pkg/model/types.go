package model

import internalmodel "github.com/goliatone/go-formflow/internal/model"

// FieldType re-exports the internal field type enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeEmail    = internalmodel.FieldTypeEmail
	FieldTypePassword = internalmodel.FieldTypePassword
	FieldTypeDate     = internalmodel.FieldTypeDate
	FieldTypeTextarea = internalmodel.FieldTypeTextarea
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
	FieldTypeRadio    = internalmodel.FieldTypeRadio
	FieldTypeSelect   = internalmodel.FieldTypeSelect
	FieldTypeFile     = internalmodel.FieldTypeFile
	FieldTypeRating   = internalmodel.FieldTypeRating
)

const (
	RuleRequired  = internalmodel.RuleRequired
	RuleMin       = internalmodel.RuleMin
	RuleMax       = internalmodel.RuleMax
	RuleMinLength = internalmodel.RuleMinLength
	RuleMaxLength = internalmodel.RuleMaxLength
	RulePattern   = internalmodel.RulePattern
)

type Rule = internalmodel.Rule
type Option = internalmodel.Option
type Condition = internalmodel.Condition
type Field = internalmodel.Field
type Form = internalmodel.Form
type Definition = internalmodel.Definition
type ConfigError = internalmodel.ConfigError

// KnownFieldTypes returns the supported field types in stable order.
func KnownFieldTypes() []FieldType {
	return internalmodel.KnownFieldTypes()
}

// EmptyValue returns the zero value stored for a field type before any user
// interaction.
func EmptyValue(t FieldType) any {
	return internalmodel.EmptyValue(t)
}

// DefaultLabeler derives a display label from a field name.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}

// SanitizeRichText strips unsafe markup from host-authored display strings.
func SanitizeRichText(raw string) string {
	return internalmodel.SanitizeRichText(raw)
}
