package domain

import "time"

// DateLayout is the canonical on-disk representation for date-only fields
// (fecha_ingreso, fecha_termino, fecha_vencimiento, ...). ISO dates sort
// lexicographically in chronological order, so string range filters on the
// store remain correct.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as a canonical date string in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaysUntil returns the whole days from now (truncated to its date) until
// the given date string. Negative when the date is past.
func DaysUntil(date string, now time.Time) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(today).Hours() / 24), nil
}
