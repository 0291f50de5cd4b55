package domain

import (
	"regexp"
	"strings"
)

var (
	platePattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,20}$`)
	phonePattern = regexp.MustCompile(`^\d{3}-?\d{3}-?\d{4}$`)
	skuPattern   = regexp.MustCompile(`^[aA][sS][tT]\d{4}$`)
	mcPattern    = regexp.MustCompile(`^[mM][cC]\d{6}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func ValidPlateNumber(s string) bool { return platePattern.MatchString(s) }

// ValidPhoneNumber accepts 10 digits with optional dashes (555-123-4567 or 5551234567).
func ValidPhoneNumber(s string) bool { return phonePattern.MatchString(s) }

// ValidSKU accepts "AST" followed by 4 digits, any letter case.
func ValidSKU(s string) bool { return skuPattern.MatchString(s) }

// ValidMCNumber accepts "MC" followed by 6 digits, any letter case.
func ValidMCNumber(s string) bool { return mcPattern.MatchString(s) }

func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// Normalization mirrors how the uniqueness constraints compare values:
// identifiers are stored in the form they are matched in.

func NormalizeMCNumber(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func NormalizeSKU(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func NormalizePlateNumber(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NormalizePhoneNumber strips separators so equal numbers compare equal.
func NormalizePhoneNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "-", "")
}

// Slugify derives a URL-friendly label from a name: lower-cased, runs of
// non-alphanumeric characters collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
