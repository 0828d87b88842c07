package contact

import (
	"strings"

	"barangay/pkg/apperr"
)

// Normalize canonicalizes a Philippine mobile number to its local 0-prefixed
// form. "+63 917 123 4567", "639171234567" and "09171234567" all normalize to
// "09171234567". The function is idempotent: an already-normalized value is
// returned unchanged. Any other shape is rejected so a single policy applies
// at every entry point that accepts a contact number.
func Normalize(raw string) (string, error) {
	c := strings.ReplaceAll(raw, " ", "")
	c = strings.TrimSpace(c)

	switch {
	case strings.HasPrefix(c, "+63"):
		c = "0" + c[3:]
	case strings.HasPrefix(c, "63"):
		c = "0" + c[2:]
	}

	if !strings.HasPrefix(c, "0") || len(c) < 2 {
		return "", apperr.New(apperr.CodeValidation, "invalid contact number format")
	}
	return c, nil
}
