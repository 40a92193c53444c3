package service

import (
	"regexp"
	"strings"
	"time"
)

var currencyPattern = regexp.MustCompile(`^[A-Z0-9]{2,8}$`)

// normalizeCurrency uppercases and validates a currency code: 2-8
// alphanumerics, e.g. MXN, USD, USDT.
func normalizeCurrency(v string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if !currencyPattern.MatchString(s) {
		return "", validationErr("currency must be a 2-8 character alphanumeric code")
	}
	return s, nil
}

// validateDate requires a real calendar date in YYYY-MM-DD form; "2024-02-30"
// is rejected, not normalized.
func validateDate(v string) (string, error) {
	s := strings.TrimSpace(v)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", validationErr("date must be a valid YYYY-MM-DD date")
	}
	return s, nil
}
