package adapter

import "fmt"

// Payload accessors. Write paths interpret manifest expectation
// payloads (decoded JSON) to build workbook content; these keep the
// type plumbing in one place.

// PayloadMap asserts an expectation payload is an object.
func PayloadMap(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expectation payload is %T, want object", v)
	}
	return m, nil
}

// PayloadString reads a string field.
func PayloadString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// PayloadFloat reads a numeric field.
func PayloadFloat(m map[string]any, key string) (float64, bool) {
	switch n := m[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// PayloadBool reads a boolean field.
func PayloadBool(m map[string]any, key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

// PayloadSlice reads an array field.
func PayloadSlice(m map[string]any, key string) ([]any, bool) {
	s, ok := m[key].([]any)
	return s, ok
}

// PayloadStrings reads an array field as strings, skipping
// non-string elements.
func PayloadStrings(m map[string]any, key string) []string {
	raw, ok := PayloadSlice(m, key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
