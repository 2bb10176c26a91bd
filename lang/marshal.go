package lang

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ToMap converts the model to a native Go map structure.
func (m *Model) ToMap() map[string]any {
	result, _ := ToNative(m.Bindings()).(map[string]any)
	if result == nil {
		result = make(map[string]any)
	}

	return result
}

// ToNative converts a Value to its native Go type: int, float64, string, or
// map[string]any.
func ToNative(v Value) any {
	switch v := v.(type) {
	case Integer:
		return int(v)

	case Float:
		return float64(v)

	case Text:
		return string(v)

	case *Dictionary:
		result := make(map[string]any, v.Len())
		for key, val := range v.All() {
			result[key] = ToNative(val)
		}

		return result

	default:
		return nil
	}
}

// FormatResult formats a native Go value, such as a query result, in cfgx
// syntax.
func FormatResult(result any) string {
	return formatResultValue(result)
}

// formatResultValue recursively formats a Go value as cfgx syntax.
func formatResultValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""

	case bool:
		return strconv.FormatBool(val)

	case int:
		return strconv.Itoa(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case float64:
		return formatFloat(val)

	case string:
		// Quote strings that contain special characters
		if needsQuoting(val) {
			return strconv.Quote(val)
		}

		return val

	case Value:
		return formatResultValue(ToNative(val))

	case []any:
		return formatSlice(val)

	case map[string]any:
		return formatMap(val)

	default:
		return fmt.Sprintf("%v", val)
	}
}

// needsQuoting returns true if a string needs to be quoted.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			r == '"' || r == '\'' || r == '\\' ||
			r == '{' || r == '}' || r == ':' || r == ',' {
			return true
		}
	}

	return false
}

// formatSlice formats a slice as a bracketed list.
func formatSlice(vals []any) string {
	if len(vals) == 0 {
		return "[]"
	}

	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatResultValue(v)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// formatMap formats a map as a dictionary with sorted keys.
func formatMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	parts := make([]string, 0, len(m))
	for _, k := range keys {
		parts = append(parts, k+": "+formatResultValue(m[k]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
