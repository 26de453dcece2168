package executor

import "strings"

// InjectCredentials replaces `{{KEY}}` placeholders with values from the
// credential map. Unknown placeholders are left untouched.
func InjectCredentials(value string, credentials map[string]string) string {
	if value == "" {
		return value
	}

	for key, val := range credentials {
		placeholder := "{{" + key + "}}"
		value = strings.ReplaceAll(value, placeholder, val)
	}

	return value
}

// HasCredentialPlaceholder reports whether a raw plan value references a
// credential, so logs and screenshot names can mask it.
func HasCredentialPlaceholder(value string) bool {
	return strings.Contains(value, "{{USERNAME}}") || strings.Contains(value, "{{PASSWORD}}")
}

// Mask renders every rune of a secret as a bullet.
func Mask(s string) string {
	if s == "" {
		return s
	}

	return strings.Repeat("•", len([]rune(s)))
}
