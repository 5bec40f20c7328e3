package hours

import "regexp"

// captureShape describes what a pattern's capture groups hold.
type captureShape int

const (
	capTime     captureShape = iota // one group: HH:MM or bare hour
	capInterval                     // two groups: open and close
	capDay                          // one group: a weekday character
)

// fieldPattern pairs a compiled expression with its capture semantics.
// Each field has an ordered table of these; priority is the slice order.
type fieldPattern struct {
	re   *regexp.Regexp
	caps captureShape
}

// lastOrderPatterns match a last-order time anywhere in the text.
// Evaluated in order over the whole input; the first pattern with a match
// wins and only its leftmost occurrence is kept.
var lastOrderPatterns = []fieldPattern{
	{regexp.MustCompile(`라스트\s*오더\s*[:：]?\s*(\d{1,2}:\d{2})`), capTime},
	{regexp.MustCompile(`라스트오더\s*[:：]?\s*(\d{1,2}:\d{2})`), capTime},
	{regexp.MustCompile(`(?i)L\.?O\.?\s*[:：]?\s*(\d{1,2}:\d{2})`), capTime},
	{regexp.MustCompile(`주문\s*마감\s*[:：]?\s*(\d{1,2}:\d{2})`), capTime},
	{regexp.MustCompile(`마지막\s*주문\s*[:：]?\s*(\d{1,2}:\d{2})`), capTime},
}

// breakTimePatterns match a midday closed interval, whole-text discipline
// like lastOrderPatterns.
var breakTimePatterns = []fieldPattern{
	{regexp.MustCompile(`브레이크\s*타임?\s*[:：]?\s*(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
	{regexp.MustCompile(`브레이크\s*[:：]?\s*(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
	{regexp.MustCompile(`휴게시간\s*[:：]?\s*(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
	{regexp.MustCompile(`쉬는시간\s*[:：]?\s*(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
	{regexp.MustCompile(`중간휴식\s*[:：]?\s*(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
}

// openHourPatterns match an open/close interval on a single line, tried in
// order per line; the first match is attributed to the current weekday.
var openHourPatterns = []fieldPattern{
	// "영업시간: 11:00 - 23:00"
	{regexp.MustCompile(`영업시간\s*[:：]?\s*(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
	// bare "11:00 - 23:00"
	{regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-~]\s*(\d{1,2}:\d{2})`), capInterval},
	// "오전 11시 - 오후 11시"
	{regexp.MustCompile(`오전\s*(\d{1,2})시?\s*[-~]\s*오후\s*(\d{1,2})시?`), capInterval},
	// "11시 - 23시"
	{regexp.MustCompile(`(\d{1,2})시\s*[-~]\s*(\d{1,2})시`), capInterval},
}

// holidayPatterns match inline closed-day phrases. Unlike the other
// tables, every pattern and every match on a line contributes: each
// captures the weekday character it refers to.
var holidayPatterns = []fieldPattern{
	{regexp.MustCompile(`([월화수목금토일])요일\s*휴무`), capDay},
	{regexp.MustCompile(`([월화수목금토일])\s*[:：]?\s*휴무`), capDay},
	{regexp.MustCompile(`매주\s*([월화수목금토일])요일\s*휴무`), capDay},
	// The whole 요일 suffix is optional so the bare trailing form
	// "... 휴무일" still captures a day: 휴무 matches, the leftover 일
	// becomes the capture. Same 요일-artifact behavior as the bare-day
	// pattern above.
	{regexp.MustCompile(`휴무일?\s*[:：]?\s*([월화수목금토일])(?:요일)?`), capDay},
}
