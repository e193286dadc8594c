package page

// CloneData deep-copies a section data payload. Nested maps and lists are
// normalized to map[string]any and []any so editors can walk them uniformly.
func CloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep-copies one data value.
func CloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return CloneData(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			if s, ok := key.(string); ok {
				out[s] = CloneValue(item)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CloneData(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	default:
		return v
	}
}

// IsPermutation reports whether order names exactly the ids of body: same
// length, every id present once, nothing invented.
func IsPermutation(body []Section, order []string) bool {
	if len(body) != len(order) {
		return false
	}
	remaining := make(map[string]int, len(body))
	for _, section := range body {
		remaining[section.ID]++
	}
	for _, id := range order {
		if remaining[id] == 0 {
			return false
		}
		remaining[id]--
	}
	return true
}

// Permute returns body rearranged to follow order. The caller must have
// checked IsPermutation; sections are carried over unchanged.
func Permute(body []Section, order []string) []Section {
	byID := make(map[string]Section, len(body))
	for _, section := range body {
		byID[section.ID] = section
	}
	out := make([]Section, len(order))
	for i, id := range order {
		out[i] = byID[id]
	}
	return out
}
