package hours

import "strings"

// contextState is the scan state of the line scanner: either no weekday
// has been seen yet, or one sticky current weekday is active.
type contextState int

const (
	noCurrentDay contextState = iota
	currentDay
)

// dayContext is the sticky current-weekday state machine. A line that
// carries a weekday token switches the state to that day; lines without
// one leave the previous state untouched.
type dayContext struct {
	state contextState
	day   Weekday
}

// observe scans a line against the fixed weekday token table. The first
// token in table order found anywhere in the line becomes the current day.
func (c *dayContext) observe(line string) {
	for _, t := range weekdayTokens {
		if strings.Contains(line, t.token) {
			c.state = currentDay
			c.day = t.day
			return
		}
	}
}

// active returns the current weekday, if any.
func (c *dayContext) active() (Weekday, bool) {
	return c.day, c.state == currentDay
}

// schedule accumulates per-day intervals and the holiday set while the
// scanner walks the input. intervals holds at most one interval per day
// (later lines overwrite); order records first insertion so the gap
// filler's mode tie-break is deterministic.
type schedule struct {
	intervals map[Weekday]string
	order     []Weekday
	holidays  map[Weekday]bool
}

func newSchedule() *schedule {
	return &schedule{
		intervals: make(map[Weekday]string),
		holidays:  make(map[Weekday]bool),
	}
}

func (s *schedule) set(day Weekday, interval string) {
	if _, seen := s.intervals[day]; !seen {
		s.order = append(s.order, day)
	}
	s.intervals[day] = interval
}

// markHolidays adds every weekday referenced by a holiday phrase on the
// line. Holiday patterns carry their own day capture, so this is
// independent of the scanner's current-day state.
func (s *schedule) markHolidays(line string) {
	for _, p := range holidayPatterns {
		for _, m := range p.re.FindAllStringSubmatch(line, -1) {
			if day, ok := weekdayFromToken(m[1]); ok {
				s.holidays[day] = true
			}
		}
	}
}

// groupValues returns the intervals of the given days in the order they
// were first added to the schedule.
func (s *schedule) groupValues(weekend bool) []string {
	var vals []string
	for _, day := range s.order {
		if day.IsWeekend() == weekend {
			vals = append(vals, s.intervals[day])
		}
	}
	return vals
}
