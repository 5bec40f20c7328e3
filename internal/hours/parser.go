// Package hours interprets free-form Korean business-hours text scraped
// from listing pages into a canonical weekly schedule: per-weekday
// open/close intervals, closed days, a break-time window and a last-order
// time. Unmatched text yields empty fields, never an error.
package hours

import (
	"fmt"
	"strconv"
	"strings"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/pkg/logging"
)

// Parser turns an hours text block into a models.HoursInfo. It is a pure
// function of its input plus an injected logger; concurrent calls are
// independent.
type Parser struct {
	log *logging.ComponentLogger
}

// NewParser creates a parser reporting through the given logger.
func NewParser(log *logging.Logger) *Parser {
	return &Parser{log: log.WithComponent("hours")}
}

// Parse extracts schedule fields from raw hours text. It never panics
// outward: an internal fault is logged and whatever partial result was
// assembled is returned, with unset fields left empty.
func (p *Parser) Parse(text string) (info models.HoursInfo) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("hours parse recovered", nil, logging.Any("panic", r))
		}
	}()

	// Last-order and break-time are global to the whole input, not tied
	// to the line scan.
	info.LastOrder = firstTime(lastOrderPatterns, text)
	info.BreakTime = firstInterval(breakTimePatterns, text)

	sched := newSchedule()
	var ctx dayContext
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		ctx.observe(line)
		sched.markHolidays(line)
		if interval, ok := matchOpenHours(line); ok {
			// An interval with no weekday to attribute it to is dropped.
			if day, active := ctx.active(); active {
				sched.set(day, interval)
			}
		}
	}

	fillGaps(sched)

	info.OpenHours = renderOpenHours(sched, info.LastOrder)
	info.Holiday = renderHoliday(sched)
	return info
}

// firstTime applies a whole-text pattern table: first pattern with a
// match wins, and only its leftmost occurrence is kept.
func firstTime(table []fieldPattern, text string) string {
	for _, p := range table {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// firstInterval is firstTime for two-group interval patterns.
func firstInterval(table []fieldPattern, text string) string {
	for _, p := range table {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return m[1] + "-" + m[2]
		}
	}
	return ""
}

// matchOpenHours tries the open-hours table against one line and returns
// the normalized interval of the first matching pattern.
func matchOpenHours(line string) (string, bool) {
	for _, p := range openHourPatterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			return normalizeInterval(line, m[1], m[2]), true
		}
	}
	return "", false
}

// normalizeInterval formats a captured open/close pair as "HH:MM-HH:MM".
// Bare-hour captures are padded to HH:00. When the line carries both an
// AM and a PM marker the close hour gains 12 unless it already is 12;
// "24:00" is kept literally and never wrapped to next day.
func normalizeInterval(line, start, end string) string {
	start = padHour(start)
	end = padHour(end)

	if strings.Contains(line, "오전") && strings.Contains(line, "오후") {
		parts := strings.SplitN(end, ":", 2)
		h, _ := strconv.Atoi(parts[0])
		if h != 12 {
			h += 12
		}
		end = fmt.Sprintf("%02d:%s", h, parts[1])
	}
	return start + "-" + end
}

// padHour turns a bare-hour capture like "9" into "09:00"; tokens already
// carrying minutes pass through unchanged.
func padHour(tok string) string {
	if strings.Contains(tok, ":") {
		return tok
	}
	if len(tok) == 1 {
		tok = "0" + tok
	}
	return tok + ":00"
}
