package client

import (
	"fmt"
	"strconv"
)

// flattenSettings walks a decoded settings document and writes every leaf into
// out under its dotted key. The settings endpoints are queried with
// flat_settings=true, but the server still nests some groups (and template
// settings arrive nested when the template was PUT that way), so both shapes
// must flatten to the same keys. List values are rendered in index order as a
// comma-joined string.
func flattenSettings(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, sub := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenSettings(key, sub, out)
		}
	case []any:
		s := ""
		for i, item := range val {
			if i > 0 {
				s += ","
			}
			s += settingString(item)
		}
		if prefix != "" {
			out[prefix] = s
		}
	default:
		if prefix != "" {
			out[prefix] = settingString(val)
		}
	}
}

// settingString renders a scalar setting value the way the server prints it:
// integers without an exponent, booleans and strings verbatim.
func settingString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// settingInt reads a flattened setting as an integer, 0 when absent or not
// numeric.
func settingInt(flat map[string]string, key string) int {
	n, err := strconv.Atoi(flat[key])
	if err != nil {
		return 0
	}
	return n
}
