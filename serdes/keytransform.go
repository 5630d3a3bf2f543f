package serdes

import "strings"

// ToSnakeCase converts a camelCase identifier to snake_case.
func ToSnakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = r >= 'a' && r <= 'z'
	}
	return b.String()
}

// ToCamelCase converts a snake_case identifier to camelCase.
func ToCamelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// KeyTransformer renames object keys, optionally recursing into nested
// objects. It runs only when a caller invokes Apply on a value; the
// Engine's Serialize/Deserialize traversal does not apply it.
type KeyTransformer struct {
	Rename    func(key string) string
	Recursive bool
}

// SnakeCaseTransformer renames camelCase user keys to snake_case wire
// keys (serialize) or vice versa (deserialize callers pass
// ToCamelCase).
func SnakeCaseTransformer(recursive bool) KeyTransformer {
	return KeyTransformer{Rename: ToSnakeCase, Recursive: recursive}
}

// CamelCaseTransformer is the deserialize-direction counterpart of
// SnakeCaseTransformer.
func CamelCaseTransformer(recursive bool) KeyTransformer {
	return KeyTransformer{Rename: ToCamelCase, Recursive: recursive}
}

// Apply renames the top-level keys of m, recursing into nested
// map[string]any values when Recursive is set.
func (k KeyTransformer) Apply(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, v := range m {
		newKey := k.Rename(key)
		if k.Recursive {
			if nested, ok := v.(map[string]any); ok {
				v = k.Apply(nested)
			}
		}
		out[newKey] = v
	}
	return out
}
