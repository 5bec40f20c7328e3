package utils

import (
	"regexp"
	"strings"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhoneNumber normalizes a Korean phone number into the dashed
// canonical format stored in the database.
// Rules:
// - strip all punctuation and spaces first
// - +82 country prefix folds back to a leading 0
// - Seoul landlines (02) group as 02-XXX(X)-XXXX
// - mobile/other area codes (010, 031, 0507, ...) group as 0XX(X)-XXXX-XXXX
// - numbers that fit no known shape are returned digits-only rather than guessed
func NormalizePhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	digits := nonDigitRe.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, "82") && len(digits) > 2 {
		digits = "0" + digits[2:]
	}

	switch {
	case strings.HasPrefix(digits, "02"):
		switch len(digits) {
		case 9: // 02-XXX-XXXX
			return digits[:2] + "-" + digits[2:5] + "-" + digits[5:]
		case 10: // 02-XXXX-XXXX
			return digits[:2] + "-" + digits[2:6] + "-" + digits[6:]
		}
	case strings.HasPrefix(digits, "0507"):
		if len(digits) == 12 {
			return digits[:4] + "-" + digits[4:8] + "-" + digits[8:]
		}
	case strings.HasPrefix(digits, "0"):
		switch len(digits) {
		case 10: // 031-XXX-XXXX
			return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
		case 11: // 010-XXXX-XXXX
			return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
		}
	}

	return digits
}

// ExtractPhoneDigits returns just the digits in a phone number string.
// Useful for loose comparisons where formatting differences are expected.
func ExtractPhoneDigits(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// ValidPhoneNumber reports whether a number looks like a plausible Korean
// store line: 9 to 12 digits and not a single repeated digit.
func ValidPhoneNumber(phone string) bool {
	digits := ExtractPhoneDigits(phone)
	if len(digits) < 9 || len(digits) > 12 {
		return false
	}
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return true
		}
	}
	return false
}

// ComparePhoneNumbers compares two phone numbers with a fuzzy strategy.
// Returns a score in [0,1], with 1 being an exact normalized match.
// Heuristics:
// - exact normalized match => 1.0
// - same raw digits => 0.9
// - same last 8 digits => 0.8 (handles area code differences)
// - otherwise => 0.0
func ComparePhoneNumbers(p1, p2 string) float64 {
	if p1 == "" || p2 == "" {
		return 0.0
	}

	if NormalizePhoneNumber(p1) == NormalizePhoneNumber(p2) {
		return 1.0
	}

	d1 := ExtractPhoneDigits(p1)
	d2 := ExtractPhoneDigits(p2)
	if d1 == d2 {
		return 0.9
	}

	if len(d1) >= 8 && len(d2) >= 8 && d1[len(d1)-8:] == d2[len(d2)-8:] {
		return 0.8
	}

	return 0.0
}
