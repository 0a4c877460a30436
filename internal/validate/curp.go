package validate

import (
	"regexp"
	"strings"
)

// strictCURPRegex is the official CURP shape: initials, birth date,
// sex, state code, internal consonants, homonymy char and check digit.
var strictCURPRegex = regexp.MustCompile(
	`^[A-Z]{1}[AEIOUX]{1}[A-Z]{2}\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[12]\d|3[01])[HM]{1}` +
		`(?:AS|BC|BS|CC|CL|CM|CS|CH|DF|DG|GT|GR|HG|JC|MC|MN|MS|NT|NL|OC|PL|QT|QR|SP|SL|SR|TC|TS|TL|VZ|YN|ZS|NE)` +
		`[B-DF-HJ-NP-TV-Z]{3}[A-Z\d]{1}\d{1}$`)

// basicCURPRegex is the relaxed 18-character check used where only the
// shape matters (lookup keys, form gating).
var basicCURPRegex = regexp.MustCompile(`^[A-Z0-9]{18}$`)

// NormalizeCURP trims and uppercases a CURP candidate.
func NormalizeCURP(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// CURP reports whether the value is a relaxed-valid CURP after
// normalization.
func CURP(value string) bool {
	return basicCURPRegex.MatchString(NormalizeCURP(value))
}

// StrictCURP reports whether the value matches the full official
// format after normalization.
func StrictCURP(value string) bool {
	return strictCURPRegex.MatchString(NormalizeCURP(value))
}
