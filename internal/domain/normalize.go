package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	currencyMarkerRegex = regexp.MustCompile(`(?i)(zł|pln|eur|€|\$|usd)`)
	spaceRegex          = regexp.MustCompile(`[\s\x{00a0}\x{202f}]+`)
)

// NormalizePrice parses a locale-formatted currency token such as
// "1 299,00 zł" into its numeric value. The second return value reports
// whether the token held a usable price; callers treat false as "no
// observation", never as an error.
func NormalizePrice(token string) (float64, bool) {
	s := currencyMarkerRegex.ReplaceAllString(token, "")
	s = spaceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	if s == "" || strings.Count(s, ".") > 1 {
		return 0, false
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if value <= 0 {
		return 0, false
	}
	return value, true
}
