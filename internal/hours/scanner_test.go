package hours

import "testing"

func TestDayContext_Observe(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantDay Weekday
		wantOK  bool
	}{
		{"parenthesized label", "(토) 영업시간: 11:00 - 23:00", Saturday, true},
		{"full form", "금요일 영업시간: 11:00 - 23:00", Friday, true},
		{"today marker", "오늘(목)", Thursday, true},
		{"month digit wins as monday", "7월 4일(금)", Monday, true},
		{"full sunday", "일요일 휴무", Sunday, true},
		{"no token", "영업시간: 11:00 - 23:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx dayContext
			ctx.observe(tt.line)
			day, ok := ctx.active()
			if ok != tt.wantOK {
				t.Fatalf("active() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && day != tt.wantDay {
				t.Errorf("day = %s, want %s", day.Korean(), tt.wantDay.Korean())
			}
		})
	}
}

func TestDayContext_Sticky(t *testing.T) {
	var ctx dayContext
	ctx.observe("(화)")
	ctx.observe("영업시간: 10:00 - 20:00")

	day, ok := ctx.active()
	if !ok || day != Tuesday {
		t.Errorf("context = (%v, %v), want 화 after token-less line", day, ok)
	}

	ctx.observe("(금)")
	if day, _ := ctx.active(); day != Friday {
		t.Errorf("context = %s, want 금 after new token", day.Korean())
	}
}

func TestSchedule_MarkHolidays(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Weekday
	}{
		{"day suffix", "일요일 휴무", []Weekday{Sunday}},
		// The bare-day pattern also latches onto the 일 of 요일 here, so
		// the weekly phrase marks Sunday alongside the named day.
		{"weekly phrase", "매주 월요일 휴무", []Weekday{Monday, Sunday}},
		{"label colon", "휴무일: 화요일", []Weekday{Tuesday}},
		{"trailing marker", "7월 6일(일) 휴무일", []Weekday{Sunday}},
		{"no holiday", "영업시간: 11:00 - 23:00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSchedule()
			s.markHolidays(tt.line)
			if len(s.holidays) != len(tt.want) {
				t.Fatalf("holidays = %v, want %v", s.holidays, tt.want)
			}
			for _, d := range tt.want {
				if !s.holidays[d] {
					t.Errorf("missing holiday %s", d.Korean())
				}
			}
		})
	}
}
