package model

import "strings"

// ConfigError reports every invariant violation found while compiling a
// descriptor list. Build refuses to produce a definition when any issue is
// present; a form never renders in a partially valid state.
type ConfigError struct {
	Issues []string
}

func (e *ConfigError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "model: invalid form definition"
	}
	return "model: invalid form definition: " + strings.Join(e.Issues, "; ")
}
