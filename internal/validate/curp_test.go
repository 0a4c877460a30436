package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCURP_RelaxedAndStrict(t *testing.T) {
	// Well-formed CURP from the dev fixtures.
	valid := "SAPM900101MBCNRR06"

	assert.True(t, CURP(valid))
	assert.True(t, StrictCURP(valid))

	// Lowercase with surrounding whitespace normalizes first.
	assert.True(t, CURP("  sapm900101mbcnrr06 "))
	assert.True(t, StrictCURP("  sapm900101mbcnrr06 "))
}

func TestCURP_RejectsSeventeenChars(t *testing.T) {
	short := "SAPM900101MBCNRR0" // 17 chars

	assert.False(t, CURP(short))
	assert.False(t, StrictCURP(short))
}

func TestStrictCURP_RejectsShapeViolations(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"bad month", "SAPM901301MBCNRR06"},
		{"bad sex marker", "SAPM900101XBCNRR06"},
		{"unknown state code", "SAPM900101MXXNRR06"},
		{"vowel in consonant block", "SAPM900101MBCARR06"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, StrictCURP(tc.value))
			// The relaxed check only cares about 18 alphanumerics.
			assert.True(t, CURP(tc.value))
		})
	}
}

func TestNormalizeCURP(t *testing.T) {
	assert.Equal(t, "SAPM900101MBCNRR06", NormalizeCURP(" sapm900101mbcnrr06\n"))
}
