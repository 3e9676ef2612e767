// utils/validation.go
package utils

import (
	"regexp"
	"slices"
)

var phoneRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidatePhone checks the format "+999999999" with 9 to 15 digits.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// SubsetOf returns the first value not present in allowed, or "" when every
// value is allowed.
func SubsetOf(values, allowed []string) string {
	for _, v := range values {
		if !slices.Contains(allowed, v) {
			return v
		}
	}
	return ""
}
