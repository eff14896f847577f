package render

import "github.com/goliatone/go-formflow/pkg/model"

// Slot is a typed identifier for the markup regions a renderer emits.
// Type-specific input slots take the form "input.<type>" and win over the
// generic SlotInput when both are configured.
type Slot string

const (
	SlotForm   Slot = "form"
	SlotField  Slot = "field"
	SlotLabel  Slot = "label"
	SlotInput  Slot = "input"
	SlotHelp   Slot = "help"
	SlotError  Slot = "error"
	SlotSubmit Slot = "submit"
)

// InputSlot returns the type-specific input slot, e.g. "input.rating".
func InputSlot(t model.FieldType) Slot {
	return Slot("input." + string(t))
}

// DefaultClassNames returns the stock class for every generic slot.
func DefaultClassNames() map[string]string {
	return map[string]string{
		string(SlotForm):   "formflow-form",
		string(SlotField):  "formflow-field",
		string(SlotLabel):  "formflow-label",
		string(SlotInput):  "formflow-input",
		string(SlotHelp):   "formflow-help",
		string(SlotError):  "formflow-error",
		string(SlotSubmit): "formflow-submit",
	}
}

// MergeClassNames layers overrides on top of base without mutating either.
// Empty override values are ignored so partial maps only replace the slots
// they mention.
func MergeClassNames(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for slot, class := range base {
		if class != "" {
			merged[slot] = class
		}
	}
	for slot, class := range overrides {
		if class != "" {
			merged[slot] = class
		}
	}
	return merged
}

// ClassFor resolves the class for the first slot with a configured value,
// so callers list slots most-specific first: ClassFor(m, InputSlot(t),
// SlotInput).
func ClassFor(classNames map[string]string, slots ...Slot) string {
	for _, slot := range slots {
		if class := classNames[string(slot)]; class != "" {
			return class
		}
	}
	return ""
}
