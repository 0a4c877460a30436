package validate

import (
	"regexp"
	"strings"
	"time"
)

// PasswordMinLength is the default minimum for the secure-password
// policy.
const PasswordMinLength = 8

// MinimumAge in years required to register.
const MinimumAge = 15

var (
	emailRegex       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodeRegex  = regexp.MustCompile(`^\d{5}$`)
	houseNumberRegex = regexp.MustCompile(`^[0-9]{1,5}[A-Z0-9\-]{0,4}$`)
	dateRegex        = regexp.MustCompile(`^(0[1-9]|[12]\d|3[01])/(0[1-9]|1[0-2])/\d{4}$`)
	upperRegex       = regexp.MustCompile(`[A-Z]`)
	lowerRegex       = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`\d`)
	spaceRegex       = regexp.MustCompile(`\s+`)
)

// Email reports whether the value is email-shaped after trimming and
// lowercasing.
func Email(value string) bool {
	return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(value)))
}

// SecurePassword enforces the minimum length plus at least one
// uppercase letter, one lowercase letter and one digit.
func SecurePassword(value string, minLength int) bool {
	if minLength <= 0 {
		minLength = PasswordMinLength
	}
	return len(value) >= minLength &&
		upperRegex.MatchString(value) &&
		lowerRegex.MatchString(value) &&
		digitRegex.MatchString(value)
}

// NameLike accepts free text of at least two characters after
// trimming. Used for names, streets and neighborhoods.
func NameLike(value string) bool {
	return len(strings.TrimSpace(value)) >= 2
}

// PostalCode accepts exactly five digits.
func PostalCode(value string) bool {
	return postalCodeRegex.MatchString(strings.TrimSpace(value))
}

// ExteriorNumber accepts the literal no-number marker "S/N" or a
// compacted alphanumeric house number of up to five leading digits.
func ExteriorNumber(value string) bool {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return false
	}
	if strings.ToUpper(normalized) == "S/N" {
		return true
	}
	compact := strings.ToUpper(spaceRegex.ReplaceAllString(normalized, ""))
	return houseNumberRegex.MatchString(compact)
}

// BirthDate accepts DD/MM/AAAA, requires a real calendar date and an
// age of at least MinimumAge years.
func BirthDate(value string) bool {
	trimmed := strings.TrimSpace(value)
	if !dateRegex.MatchString(trimmed) {
		return false
	}

	date, err := time.Parse("02/01/2006", trimmed)
	if err != nil {
		return false
	}
	// time.Parse normalizes impossible dates (31/02 becomes 02/03 or
	// 03/03); round-tripping catches those.
	if date.Format("02/01/2006") != trimmed {
		return false
	}

	return date.Year() <= time.Now().Year()-MinimumAge
}
