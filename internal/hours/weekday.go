package hours

// Weekday identifies a day of the week. The zero value is Monday and the
// canonical Mon..Sun order is the order of the constants; every rendering
// and inference step iterates in this order, never in map order.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var canonicalOrder = [...]Weekday{
	Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday,
}

var koreanShort = [...]string{"월", "화", "수", "목", "금", "토", "일"}

// Korean returns the single-character Korean label for the day.
func (w Weekday) Korean() string {
	if w < Monday || w > Sunday {
		return ""
	}
	return koreanShort[w]
}

// IsWeekend reports whether the day belongs to the {Sat, Sun} group used
// by the gap filler; Mon..Fri form the weekday group.
func (w Weekday) IsWeekend() bool {
	return w == Saturday || w == Sunday
}

// weekdayTokens is the fixed scan table for detecting a day label in a
// line of text: short single-character forms first, then the full -요일
// forms, mirroring how the source pages label days. The first token found
// anywhere in a line wins, so ordering here is part of the contract
// (e.g. "7월 4일" resolves to 월 because 월 precedes 일 in the table).
var weekdayTokens = []struct {
	token string
	day   Weekday
}{
	{"월", Monday},
	{"화", Tuesday},
	{"수", Wednesday},
	{"목", Thursday},
	{"금", Friday},
	{"토", Saturday},
	{"일", Sunday},
	{"월요일", Monday},
	{"화요일", Tuesday},
	{"수요일", Wednesday},
	{"목요일", Thursday},
	{"금요일", Friday},
	{"토요일", Saturday},
	{"일요일", Sunday},
}

// weekdayFromToken resolves a captured day character back to a Weekday.
func weekdayFromToken(tok string) (Weekday, bool) {
	for _, t := range weekdayTokens {
		if t.token == tok {
			return t.day, true
		}
	}
	return 0, false
}
