package pagestate

import (
	"strconv"
)

// Path is a sequence of keys walked from the root of a decoded blob.
// Numeric segments index into arrays.
type Path []string

// Lookup walks path against obj. The boolean is false when any segment is
// missing, the walk hits a non-container value, or the final value is null.
func Lookup(obj any, path Path) (any, bool) {
	cur := obj
	for _, key := range path {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[key]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Resolve returns the value at the first path that resolves to a non-null
// value, or fallback when none does. An empty string counts as present.
func Resolve(obj any, paths []Path, fallback any) any {
	for _, p := range paths {
		if v, ok := Lookup(obj, p); ok {
			return v
		}
	}
	return fallback
}

// Map resolves paths and returns the result when it is an object.
func Map(obj any, paths ...Path) map[string]any {
	m, _ := Resolve(obj, paths, nil).(map[string]any)
	return m
}

// Slice resolves paths and returns the result when it is an array.
func Slice(obj any, paths ...Path) []any {
	s, _ := Resolve(obj, paths, nil).([]any)
	return s
}

// Text renders a decoded JSON scalar as a string.
// Objects with a "name" field render as that name. Anything else is "".
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return name
		}
	}
	return ""
}

// Truthy reports whether v would be truthy in the page's own scripts.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
