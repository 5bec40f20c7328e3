package hours

// fillGaps completes weekdays that never appeared in the scan from the
// days that did. It runs exactly once, in a fixed order, and never
// iterates to a fixed point:
//
//  1. split known days into the Mon..Fri and Sat/Sun groups;
//  2. with two or more Mon..Fri entries, the most frequent interval
//     (frequency >= 2) fills the missing non-holiday Mon..Fri days;
//  3. with at least one weekend entry, its most frequent interval fills
//     the missing non-holiday weekend days, no frequency threshold;
//  4. if the schedule held exactly one populated weekday before any of
//     the above ran, that single interval fills every day still missing.
//
// Holiday days are never filled.
func fillGaps(s *schedule) {
	if len(s.intervals) == 0 {
		return
	}

	missing := make(map[Weekday]bool)
	for _, day := range canonicalOrder {
		if _, ok := s.intervals[day]; !ok && !s.holidays[day] {
			missing[day] = true
		}
	}
	if len(missing) == 0 {
		return
	}

	// Snapshot before any filling: step 4 is judged against this state.
	snapshotSize := len(s.intervals)
	snapshotValue := s.intervals[s.order[0]]

	weekdayVals := s.groupValues(false)
	weekendVals := s.groupValues(true)

	if len(weekdayVals) >= 2 {
		if mode, freq := modeOf(weekdayVals); freq >= 2 {
			for _, day := range canonicalOrder {
				if !day.IsWeekend() && missing[day] {
					s.set(day, mode)
				}
			}
		}
	}

	if len(weekendVals) >= 1 {
		mode, _ := modeOf(weekendVals)
		for _, day := range canonicalOrder {
			if day.IsWeekend() && missing[day] && !s.holidays[day] {
				s.set(day, mode)
			}
		}
	}

	if snapshotSize == 1 {
		for _, day := range canonicalOrder {
			if _, ok := s.intervals[day]; !ok && !s.holidays[day] {
				s.set(day, snapshotValue)
			}
		}
	}
}

// modeOf returns the most frequent value and its count. Frequency ties
// break toward the value seen first, so the result does not depend on map
// iteration order.
func modeOf(vals []string) (string, int) {
	counts := make(map[string]int)
	var firstSeen []string
	for _, v := range vals {
		if counts[v] == 0 {
			firstSeen = append(firstSeen, v)
		}
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range firstSeen {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}
