package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// ErrorMapping splits an external validator payload into field-level and
// form-level messages keyed by declared field names.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises validator payloads into declared field names.
// Keys may arrive as plain names, dotted paths ("body.country"), or JSON
// pointers ("#/properties/country"); the last path segment naming a declared
// field wins. Unknown keys are kept as form-level errors so messages are not
// lost.
func MapErrorPayload(def *model.Definition, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	for rawKey, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		name, formLevel := mapErrorKey(def, rawKey)
		if formLevel {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	// Several raw keys can collapse onto one field; dedupe again after the
	// merge so repeated messages surface once.
	for name, merged := range mapping.Fields {
		mapping.Fields[name] = normalizeMessages(merged)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorKey(def *model.Definition, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	if def.Has(trimmed) {
		return trimmed, false
	}

	segments := parseKeySegments(trimmed)
	for i := len(segments) - 1; i >= 0; i-- {
		if def.Has(segments[i]) {
			return segments[i], false
		}
	}
	return "", true
}

// parseKeySegments reduces pointer and dotted keys to bare name segments:
// leading anchors (#, $, /) are stripped, JSON pointer escapes decoded,
// array indices and common payload wrappers dropped.
func parseKeySegments(key string) []string {
	clean := strings.TrimSpace(key)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") ||
		strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" || isWrapperSegment(segment) {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "attributes", "properties":
		return true
	default:
		return false
	}
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
