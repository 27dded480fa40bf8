package domain

import (
	"fmt"
	"regexp"
)

// Primary files carry a compact date token such as "D250807"; the reference
// files for the same business date use the eight digit form "20250807". The
// century is fixed by the upstream naming convention, so conversion is string
// manipulation, not calendar parsing.
var (
	dateTokenPattern    = regexp.MustCompile(`^D\d{6}$`)
	expandedDatePattern = regexp.MustCompile(`^20\d{6}$`)
)

// ParseDateToken validates a compact date token and returns it unchanged.
func ParseDateToken(s string) (string, error) {
	if !dateTokenPattern.MatchString(s) {
		return "", fmt.Errorf("domain.ParseDateToken: %w: %q", ErrInvalidDateToken, s)
	}
	return s, nil
}

// ExpandDateToken converts a compact token ("D250807") into the eight digit
// date ("20250807") used by reference file names.
func ExpandDateToken(token string) (string, error) {
	if !dateTokenPattern.MatchString(token) {
		return "", fmt.Errorf("domain.ExpandDateToken: %w: %q", ErrInvalidDateToken, token)
	}
	return "20" + token[1:], nil
}

// CompactDate is the inverse of ExpandDateToken: it turns an eight digit date
// ("20250807") back into the compact token ("D250807").
func CompactDate(date string) (string, error) {
	if !expandedDatePattern.MatchString(date) {
		return "", fmt.Errorf("domain.CompactDate: %w: %q", ErrInvalidDateToken, date)
	}
	return "D" + date[2:], nil
}
