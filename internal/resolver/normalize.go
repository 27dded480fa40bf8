package resolver

import "strings"

// NormalizeKey canonicalizes a raw field value for comparison across
// datasets. All-digit values lose their leading zeros so that "045" and "45"
// compare equal; anything else is trimmed and otherwise left alone. Primary
// keys and reference keys must both pass through this same function.
func NormalizeKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !isDigits(trimmed) {
		return trimmed
	}
	stripped := strings.TrimLeft(trimmed, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
