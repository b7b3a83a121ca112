package core

import "strings"

// ToWireCase returns a copy of value with every object key converted to
// snake case. Arrays are mapped element-wise and scalars are returned as is.
func ToWireCase(value any) any {
	return transformKeys(value, WireKey)
}

// ToLocalCase returns a copy of value with every object key converted to
// lower camel case.
func ToLocalCase(value any) any {
	return transformKeys(value, LocalKey)
}

// WireKey converts buildingName into building_name.
func WireKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// LocalKey converts building_name (or building-name) into buildingName.
func LocalKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c == '_' || c == '-') && i+1 < len(key) && isASCIILetter(key[i+1]) {
			next := key[i+1]
			if next >= 'a' && next <= 'z' {
				next -= 'a' - 'A'
			}
			b.WriteByte(next)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func transformKeys(value any, rename func(string) string) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[rename(key)] = transformKeys(item, rename)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = transformKeys(item, rename)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = transformKeys(item, rename)
		}
		return out
	default:
		return value
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
