package hours

import "testing"

func schedWith(entries []struct {
	day      Weekday
	interval string
}, holidays ...Weekday) *schedule {
	s := newSchedule()
	for _, e := range entries {
		s.set(e.day, e.interval)
	}
	for _, h := range holidays {
		s.holidays[h] = true
	}
	return s
}

type entry = struct {
	day      Weekday
	interval string
}

func TestFillGaps_WeekdayMajority(t *testing.T) {
	s := schedWith([]entry{
		{Monday, "11:00-23:00"},
		{Tuesday, "12:00-22:00"},
		{Wednesday, "11:00-23:00"},
	})

	fillGaps(s)

	for _, day := range []Weekday{Thursday, Friday} {
		if s.intervals[day] != "11:00-23:00" {
			t.Errorf("%s = %q, want 11:00-23:00", day.Korean(), s.intervals[day])
		}
	}
	// Tuesday keeps its own value.
	if s.intervals[Tuesday] != "12:00-22:00" {
		t.Errorf("화 = %q, want 12:00-22:00", s.intervals[Tuesday])
	}
	// No weekend entry, so the weekend stays empty.
	if _, ok := s.intervals[Saturday]; ok {
		t.Error("토 filled without any weekend data")
	}
}

func TestFillGaps_FrequencyThreshold(t *testing.T) {
	// Two weekday entries with different values: the mode has frequency
	// 1, below the threshold, so nothing fills.
	s := schedWith([]entry{
		{Monday, "10:00-20:00"},
		{Tuesday, "11:00-21:00"},
	})

	fillGaps(s)

	if len(s.intervals) != 2 {
		t.Errorf("got %d entries, want 2: %v", len(s.intervals), s.intervals)
	}
}

func TestFillGaps_ModeTieBreaksFirstSeen(t *testing.T) {
	// Two values tied at two occurrences each: the one added first wins.
	s := schedWith([]entry{
		{Monday, "10:00-20:00"},
		{Tuesday, "11:00-21:00"},
		{Wednesday, "11:00-21:00"},
		{Thursday, "10:00-20:00"},
	})

	fillGaps(s)

	if s.intervals[Friday] != "10:00-20:00" {
		t.Errorf("금 = %q, want first-seen 10:00-20:00", s.intervals[Friday])
	}
}

func TestFillGaps_WeekendSingleEntry(t *testing.T) {
	// Weekend rule has no frequency threshold: one entry is enough.
	s := schedWith([]entry{
		{Monday, "11:00-23:00"},
		{Tuesday, "11:00-23:00"},
		{Saturday, "12:00-22:00"},
	})

	fillGaps(s)

	if s.intervals[Sunday] != "12:00-22:00" {
		t.Errorf("일 = %q, want weekend fill 12:00-22:00", s.intervals[Sunday])
	}
	if s.intervals[Friday] != "11:00-23:00" {
		t.Errorf("금 = %q, want weekday fill 11:00-23:00", s.intervals[Friday])
	}
}

func TestFillGaps_SingleKnownDay(t *testing.T) {
	s := schedWith([]entry{{Saturday, "10:00-20:00"}}, Sunday)

	fillGaps(s)

	for _, day := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday} {
		if s.intervals[day] != "10:00-20:00" {
			t.Errorf("%s = %q, want 10:00-20:00", day.Korean(), s.intervals[day])
		}
	}
	if _, ok := s.intervals[Sunday]; ok {
		t.Error("holiday 일 must not be filled")
	}
}

func TestFillGaps_SnapshotJudgedBeforeOtherSteps(t *testing.T) {
	// 목/금/토/일 share one value. The weekday rule fires (two entries,
	// frequency two) and the single-known-day rule does not: four days
	// were populated before inference, not one.
	s := schedWith([]entry{
		{Thursday, "00:00-24:00"},
		{Friday, "00:00-24:00"},
		{Saturday, "00:00-24:00"},
		{Sunday, "00:00-24:00"},
	})

	fillGaps(s)

	for _, day := range canonicalOrder {
		if s.intervals[day] != "00:00-24:00" {
			t.Errorf("%s = %q, want 00:00-24:00", day.Korean(), s.intervals[day])
		}
	}
}

func TestFillGaps_EmptySchedule(t *testing.T) {
	s := newSchedule()
	fillGaps(s)
	if len(s.intervals) != 0 {
		t.Errorf("empty schedule gained entries: %v", s.intervals)
	}
}

func TestFillGaps_HolidaysNeverOverwritten(t *testing.T) {
	s := schedWith([]entry{
		{Monday, "11:00-23:00"},
		{Tuesday, "11:00-23:00"},
	}, Wednesday, Saturday, Sunday)

	fillGaps(s)

	for _, day := range []Weekday{Wednesday, Saturday, Sunday} {
		if _, ok := s.intervals[day]; ok {
			t.Errorf("holiday %s gained an interval", day.Korean())
		}
	}
	for _, day := range []Weekday{Thursday, Friday} {
		if s.intervals[day] != "11:00-23:00" {
			t.Errorf("%s = %q, want 11:00-23:00", day.Korean(), s.intervals[day])
		}
	}
}

func TestModeOf(t *testing.T) {
	tests := []struct {
		name      string
		vals      []string
		want      string
		wantCount int
	}{
		{"clear majority", []string{"a", "b", "a"}, "a", 2},
		{"tie first seen", []string{"x", "y", "y", "x"}, "x", 2},
		{"single", []string{"z"}, "z", 1},
		{"empty", nil, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := modeOf(tt.vals)
			if got != tt.want || count != tt.wantCount {
				t.Errorf("modeOf(%v) = (%q, %d), want (%q, %d)", tt.vals, got, count, tt.want, tt.wantCount)
			}
		})
	}
}
