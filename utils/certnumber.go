package utils

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var invalidNumberChars = regexp.MustCompile(`[^A-Za-z0-9-]`)

// NormalizeCertificateNumber turns a caller-supplied certificate number into a
// URL-safe stored value.
//
// A placeholder ("-" or anything of 2 characters or less after trimming) means
// no real number was supplied: a fresh unique number is generated and the
// original is recorded as "-". Otherwise every character outside [A-Za-z0-9-]
// is replaced with "_"; when that changes the value, the raw input is kept as
// the original for display and duplicate checks.
//
// Returns (finalNumber, originalNumber); originalNumber is nil when the input
// was already clean.
func NormalizeCertificateNumber(db *gorm.DB, raw string) (string, *string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = stripSurroundingQuotes(trimmed)

	if trimmed == "-" || len(trimmed) <= 2 {
		generated, err := GenerateUniqueCertificateNumber(db)
		if err != nil {
			return "", nil, err
		}
		placeholder := "-"
		return generated, &placeholder, nil
	}

	sanitized := invalidNumberChars.ReplaceAllString(trimmed, "_")
	if sanitized != trimmed {
		original := trimmed
		return sanitized, &original, nil
	}

	return sanitized, nil, nil
}

// stripSurroundingQuotes removes a single layer of matching quote characters.
func stripSurroundingQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'' || first == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
