package hours

import "strings"

// renderOpenHours builds the weekly summary in canonical Mon..Sun order:
// "월: 11:00-23:00, ..., 일: 휴무". A day with an interval is never shown
// as 휴무 even when it is also in the holiday set; a day with neither is
// omitted, so consumers must tolerate a partial week. A found last-order
// time is appended when the summary is non-empty.
func renderOpenHours(s *schedule, lastOrder string) string {
	var parts []string
	for _, day := range canonicalOrder {
		if interval, ok := s.intervals[day]; ok {
			parts = append(parts, day.Korean()+": "+interval)
		} else if s.holidays[day] {
			parts = append(parts, day.Korean()+": 휴무")
		}
	}

	out := strings.Join(parts, ", ")
	if lastOrder != "" && out != "" {
		out += " / 라스트오더: " + lastOrder
	}
	return out
}

// renderHoliday summarizes the holiday set as "매주 X요일 휴무", joining
// multiple days in canonical order rather than set order.
func renderHoliday(s *schedule) string {
	var days []string
	for _, day := range canonicalOrder {
		if s.holidays[day] {
			days = append(days, day.Korean())
		}
	}
	if len(days) == 0 {
		return ""
	}
	return "매주 " + strings.Join(days, ", ") + "요일 휴무"
}
