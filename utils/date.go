package utils

import "time"

const dateLayout = "2006-01-02"

// DateOnly truncates t to midnight in its own location. Exam dates compare
// by calendar day, never by instant.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func SameDate(a, b time.Time) bool {
	return FormatDate(a) == FormatDate(b)
}
