package form

// cloneValues deep-copies a value snapshot so callers can hold it without
// observing later mutations.
func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for name, value := range src {
		out[name] = deepCopy(value)
	}
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for name, messages := range src {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

// deepCopy recurses into the container shapes field values can take; file
// payloads in particular arrive as maps or slices.
func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []byte:
		return append([]byte(nil), typed...)
	default:
		return typed
	}
}
