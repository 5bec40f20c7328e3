package price

import (
	"regexp"
	"strconv"
	"strings"
)

// Korean numeral digits and positional units for pure-Korean amounts
// like 이만오천 (25,000).
var koreanNumerals = map[rune]int{
	'영': 0, '일': 1, '이': 2, '삼': 3, '사': 4,
	'오': 5, '육': 6, '칠': 7, '팔': 8, '구': 9,
	'십': 10, '백': 100, '천': 1000, '만': 10000, '억': 100000000,
}

var (
	mixedAmountRe = regexp.MustCompile(`([0-9]+)만([0-9]+)?천?원?`)
	pureKoreanRe  = regexp.MustCompile(`([일이삼사오육칠팔구십백천만억]+)원?`)
	commaArabicRe = regexp.MustCompile(`([0-9,]+)원?`)
	unitOnlyRe    = regexp.MustCompile(`(천|만|십만|백만)원`)
)

var unitValues = map[string]int{
	"천원":  1000,
	"만원":  10000,
	"십만원": 100000,
	"백만원": 1000000,
}

// parseAmount converts a Korean price amount to won. It understands mixed
// forms ("1만2천원"), pure Korean numerals ("이만원"), comma-separated
// arabic digits ("10,000원") and bare unit words ("만원"). Returns 0 when
// nothing parses.
func parseAmount(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if m := mixedAmountRe.FindStringSubmatch(text); m != nil {
		n := atoi(m[1]) * 10000
		if m[2] != "" {
			n += atoi(m[2]) * 1000
		}
		return n
	}

	if m := pureKoreanRe.FindStringSubmatch(text); m != nil {
		if n := parsePureKorean(m[1]); n > 0 {
			return n
		}
	}

	if m := commaArabicRe.FindStringSubmatch(text); m != nil {
		if n := atoi(strings.ReplaceAll(m[1], ",", "")); n > 0 {
			return n
		}
	}

	if m := unitOnlyRe.FindStringSubmatch(text); m != nil {
		return unitValues[m[1]+"원"]
	}

	return 0
}

// parsePureKorean evaluates a numeral string positionally: digits build a
// running value, 십/백 multiply it, 천/만/억 close out a group.
func parsePureKorean(text string) int {
	result, current := 0, 0
	for _, r := range text {
		n, ok := koreanNumerals[r]
		if !ok {
			continue
		}
		switch {
		case n < 10:
			current = current*10 + n
		case n == 10 || n == 100:
			if current == 0 {
				current = n
			} else {
				current *= n
			}
		default: // 천, 만, 억
			if current == 0 {
				current = n
			} else {
				result += current * n
				current = 0
			}
		}
	}
	return result + current
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
