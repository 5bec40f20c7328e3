package utils

import "strings"

// CalculateStringSimilarity returns a similarity score between two strings in
// the range [0,1] using a character-overlap heuristic. Lengths are measured in
// runes so multi-byte Hangul text scores the same as ASCII.
// NOTE: Intentionally lightweight; swap for a stronger metric if needed.
func CalculateStringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	longer, shorter := s1, s2
	if len([]rune(s2)) > len([]rune(s1)) {
		longer, shorter = s2, s1
	}

	common := 0
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			common++
		}
	}
	return float64(common) / float64(len([]rune(longer)))
}

// ContainsAny reports whether s contains at least one of the given substrings.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
