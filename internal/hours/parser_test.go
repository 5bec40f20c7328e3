package hours

import (
	"strings"
	"testing"

	"seoul-store-crawler/pkg/logging"
)

func newTestParser() *Parser {
	return NewParser(logging.Discard())
}

func TestParse_FullWeekExplicit(t *testing.T) {
	text := `영업 중
오늘(목)
영업시간: 11:30 - 23:30
(금) 영업시간: 11:30 - 23:30
(토) 영업시간: 11:30 - 23:30
(일) 영업시간: 11:30 - 23:30
(월) 영업시간: 11:30 - 23:30
(화) 영업시간: 11:30 - 23:30
(수) 영업시간: 11:30 - 23:30`

	info := newTestParser().Parse(text)

	want := "월: 11:30-23:30, 화: 11:30-23:30, 수: 11:30-23:30, 목: 11:30-23:30, 금: 11:30-23:30, 토: 11:30-23:30, 일: 11:30-23:30"
	if info.OpenHours != want {
		t.Errorf("OpenHours = %q, want %q", info.OpenHours, want)
	}
	if info.Holiday != "" {
		t.Errorf("Holiday = %q, want empty", info.Holiday)
	}
}

func TestParse_LastOrderAndHoliday(t *testing.T) {
	text := `브레이크 타임
오늘(목)
영업시간: 11:00 - 23:00
라스트오더: 22:00
금요일 영업시간: 11:00 - 23:00
월요일 영업시간: 11:00 - 23:00
토요일 영업시간: 16:00 - 22:00
7월 6일(일) 휴무일`

	info := newTestParser().Parse(text)

	// The closing line carries both quirks at once: "7월" drags the
	// sticky day to 월 (harmlessly, no times follow) and the trailing
	// "휴무일" marks 일 as the holiday.
	want := "월: 11:00-23:00, 화: 11:00-23:00, 수: 11:00-23:00, 목: 11:00-23:00, 금: 11:00-23:00, 토: 16:00-22:00, 일: 휴무 / 라스트오더: 22:00"
	if info.OpenHours != want {
		t.Errorf("OpenHours = %q, want %q", info.OpenHours, want)
	}
	if info.LastOrder != "22:00" {
		t.Errorf("LastOrder = %q, want 22:00", info.LastOrder)
	}
	if info.Holiday != "매주 일요일 휴무" {
		t.Errorf("Holiday = %q, want 매주 일요일 휴무", info.Holiday)
	}
	// "브레이크 타임" with no times attached must not produce a window.
	if info.BreakTime != "" {
		t.Errorf("BreakTime = %q, want empty", info.BreakTime)
	}
}

func TestParse_TwentyFourHours(t *testing.T) {
	// Four explicit days with one shared value. The weekday rule (목/금,
	// frequency 2) back-fills 월/화/수; the single-known-day rule stays
	// quiet because the pre-inference schedule held four days, not one.
	text := `영업 중
오늘(목)
영업시간: 00:00 - 24:00
(금) 영업시간: 00:00 - 24:00
(토) 영업시간: 00:00 - 24:00
(일) 영업시간: 00:00 - 24:00`

	info := newTestParser().Parse(text)

	want := "월: 00:00-24:00, 화: 00:00-24:00, 수: 00:00-24:00, 목: 00:00-24:00, 금: 00:00-24:00, 토: 00:00-24:00, 일: 00:00-24:00"
	if info.OpenHours != want {
		t.Errorf("OpenHours = %q, want %q", info.OpenHours, want)
	}
	if strings.Contains(info.OpenHours, "00:00-00:00") {
		t.Error("24:00 close must be preserved, not wrapped")
	}
}

func TestParse_SingleDaySpreadsToWholeWeek(t *testing.T) {
	text := `(수)
11시 - 23시`

	info := newTestParser().Parse(text)

	want := "월: 11:00-23:00, 화: 11:00-23:00, 수: 11:00-23:00, 목: 11:00-23:00, 금: 11:00-23:00, 토: 11:00-23:00, 일: 11:00-23:00"
	if info.OpenHours != want {
		t.Errorf("OpenHours = %q, want %q", info.OpenHours, want)
	}
}

func TestParse_HolidayNeverFilled(t *testing.T) {
	text := `(월)
09:00 - 18:00
일요일 휴무`

	info := newTestParser().Parse(text)

	if strings.Contains(info.OpenHours, "일: 09:00-18:00") {
		t.Errorf("holiday day gained an interval: %q", info.OpenHours)
	}
	if !strings.Contains(info.OpenHours, "일: 휴무") {
		t.Errorf("holiday day missing from summary: %q", info.OpenHours)
	}
	if !strings.Contains(info.OpenHours, "토: 09:00-18:00") {
		t.Errorf("single-day fill skipped 토: %q", info.OpenHours)
	}
}

func TestParse_IntervalSuppressesHoliday(t *testing.T) {
	// A day with explicit hours keeps them even when a holiday phrase
	// also names it; the holiday summary still reports the phrase.
	text := `(금) 10:00 - 22:00
금: 휴무`

	info := newTestParser().Parse(text)

	if !strings.Contains(info.OpenHours, "금: 10:00-22:00") {
		t.Errorf("explicit interval lost: %q", info.OpenHours)
	}
	if strings.Contains(info.OpenHours, "금: 휴무") {
		t.Errorf("interval day rendered as closed: %q", info.OpenHours)
	}
	if info.Holiday != "매주 금요일 휴무" {
		t.Errorf("Holiday = %q, want 매주 금요일 휴무", info.Holiday)
	}
}

func TestParse_NoWeekdayContext(t *testing.T) {
	// An interval with no weekday to attribute it to is dropped.
	info := newTestParser().Parse("11:00 - 23:00")

	if info.OpenHours != "" {
		t.Errorf("OpenHours = %q, want empty", info.OpenHours)
	}
	if info.Holiday != "" {
		t.Errorf("Holiday = %q, want empty", info.Holiday)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	info := newTestParser().Parse("")
	if info.OpenHours != "" || info.Holiday != "" || info.BreakTime != "" || info.LastOrder != "" {
		t.Errorf("expected all fields empty, got %+v", info)
	}
}

func TestParse_HolidayOnly(t *testing.T) {
	info := newTestParser().Parse("일요일 휴무")

	if info.OpenHours != "일: 휴무" {
		t.Errorf("OpenHours = %q, want 일: 휴무", info.OpenHours)
	}
	if info.Holiday != "매주 일요일 휴무" {
		t.Errorf("Holiday = %q, want 매주 일요일 휴무", info.Holiday)
	}
}

func TestParse_MultipleHolidaysCanonicalOrder(t *testing.T) {
	// Discovered out of order; the summary joins in Mon..Sun order.
	text := `일요일 휴무
화요일 휴무`

	info := newTestParser().Parse(text)

	if info.Holiday != "매주 화, 일요일 휴무" {
		t.Errorf("Holiday = %q, want 매주 화, 일요일 휴무", info.Holiday)
	}
}

func TestParse_StickyContextAcrossLines(t *testing.T) {
	text := `(화)

영업시간: 10:00 - 20:00`

	info := newTestParser().Parse(text)

	if !strings.Contains(info.OpenHours, "화: 10:00-20:00") {
		t.Errorf("sticky weekday context lost: %q", info.OpenHours)
	}
}

func TestParse_LaterLineOverwritesDay(t *testing.T) {
	text := `(월) 09:00 - 18:00
(월) 10:00 - 19:00`

	info := newTestParser().Parse(text)

	if !strings.Contains(info.OpenHours, "월: 10:00-19:00") {
		t.Errorf("later line did not overwrite: %q", info.OpenHours)
	}
}

func TestParse_MonthDigitResolvesToMonday(t *testing.T) {
	// "7월 4일(금)" carries both 월 and 일; the scan table puts 월 first,
	// so the line's hours land on Monday.
	text := `7월 4일(금) 영업시간: 11:00 - 23:00`

	info := newTestParser().Parse(text)

	if !strings.Contains(info.OpenHours, "월: 11:00-23:00") {
		t.Errorf("date-bearing line not attributed to 월: %q", info.OpenHours)
	}
}

func TestParse_LastOrderPriorityOverPosition(t *testing.T) {
	// 주문 마감 appears first in the text, but the 라스트오더 pattern is
	// earlier in the table and wins.
	text := `(월) 10:00 - 22:00
주문 마감: 21:30
라스트오더: 22:00`

	info := newTestParser().Parse(text)

	if info.LastOrder != "22:00" {
		t.Errorf("LastOrder = %q, want 22:00", info.LastOrder)
	}
}

func TestParse_BreakTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"attached times", "브레이크타임: 15:00 - 17:00", "15:00-17:00"},
		{"tilde separator", "휴게시간 14:30~16:30", "14:30-16:30"},
		{"spaced label", "브레이크 타임 15:00 - 17:00", "15:00-17:00"},
		{"absent", "영업시간: 11:00 - 23:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := newTestParser().Parse(tt.text)
			if info.BreakTime != tt.want {
				t.Errorf("BreakTime = %q, want %q", info.BreakTime, tt.want)
			}
		})
	}
}

func TestNormalizeInterval(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		start string
		end   string
		want  string
	}{
		{"am to pm", "오전 11시 - 오후 11시", "11", "11", "11:00-23:00"},
		{"pm noon unchanged", "오전 11시 - 오후 12시", "11", "12", "11:00-12:00"},
		{"bare hours padded", "11시 - 23시", "11", "23", "11:00-23:00"},
		{"single digit padded", "9시 - 18시", "9", "18", "09:00-18:00"},
		{"clock times untouched", "영업시간: 9:30 - 23:30", "9:30", "23:30", "9:30-23:30"},
		{"no meridiem markers", "11:00 - 23:00", "11:00", "23:00", "11:00-23:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeInterval(tt.line, tt.start, tt.end)
			if got != tt.want {
				t.Errorf("normalizeInterval(%q, %q, %q) = %q, want %q", tt.line, tt.start, tt.end, got, tt.want)
			}
		})
	}
}
