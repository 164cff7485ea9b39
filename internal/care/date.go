package care

import (
	"fmt"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// Date is a civil calendar day with no time-of-day and no zone.
//
// Keeping care dates civil means "2024-03-10" stays "2024-03-10" no matter
// which zone the server runs in or whether a DST transition falls inside an
// interval.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing out-of-range fields the way time.Date
// does (month 13 rolls into the next year, day 0 is the previous month's
// last day).
func NewDate(year int, month time.Month, day int) Date {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the wall-clock date of t in t's own location. Callers
// capture "today" with DateOf(time.Now().In(loc)) once per computation.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func fromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseLocalDate is the single normalization entry point for date text.
// It accepts "YYYY-MM-DD", optionally followed by a time component
// ("2024-01-08T09:30:00Z", "2024-01-08 09:30:00+00"), which is discarded.
// The wall date written in the text is used as-is and never shifted through
// another zone.
//
// Malformed input, including impossible days such as "2023-02-30", yields
// ok == false.
func ParseLocalDate(text string) (Date, bool) {
	s := strings.TrimSpace(text)
	if len(s) > len(dateKeyLayout) {
		switch s[len(dateKeyLayout)] {
		case 'T', 't', ' ':
			s = s[:len(dateKeyLayout)]
		default:
			return Date{}, false
		}
	}
	// UTC has no DST gaps, so midnight always exists and the day never
	// slides back.
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

// FormatDateKey renders d as a zero-padded YYYY-MM-DD key.
func FormatDateKey(d Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FormatShortDate renders d as an abbreviated month and day, e.g. "Jan 15".
func FormatShortDate(d Date) string {
	return d.Time(time.UTC).Format("Jan 2")
}

// AddDays steps d by n calendar days, rolling months and years over.
func AddDays(d Date, n int) Date {
	// UTC has no DST gaps, so normalizing the day field is exact.
	return NewDate(d.Year, d.Month, d.Day+n)
}

// LatestDate returns the chronologically latest date, or ok == false when
// dates is empty.
func LatestDate(dates []Date) (Date, bool) {
	if len(dates) == 0 {
		return Date{}, false
	}
	latest := dates[0]
	for _, d := range dates[1:] {
		if d.After(latest) {
			latest = d
		}
	}
	return latest, true
}

// DaysBetween returns the number of calendar days from a to b, negative
// when b precedes a.
func DaysBetween(a, b Date) int {
	const secondsPerDay = 24 * 60 * 60
	return int((b.Time(time.UTC).Unix() - a.Time(time.UTC).Unix()) / secondsPerDay)
}

// Time returns midnight of d in loc. A nil loc means time.Local.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

func (d Date) String() string {
	return FormatDateKey(d)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(FormatDateKey(d)), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, ok := ParseLocalDate(string(b))
	if !ok {
		return fmt.Errorf("care: invalid date %q", string(b))
	}
	*d = parsed
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
