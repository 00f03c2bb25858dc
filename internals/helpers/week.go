package helper

import "time"

// MondayOf returns the Monday of the ISO week containing d, truncated to midnight.
func MondayOf(d time.Time) time.Time {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	// Go weekday: Sunday=0 ... Saturday=6; shift Sunday back to the previous Monday.
	offset := int(d.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	return d.AddDate(0, 0, -offset)
}

// WeekLabel formats a form week as "<Mon> - <Fri>", e.g. "05 May 2025 - 09 May 2025".
func WeekLabel(monday time.Time) string {
	friday := monday.AddDate(0, 0, 4)
	return monday.Format("02 Jan 2006") + " - " + friday.Format("02 Jan 2006")
}

// SameDate reports whether two timestamps fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
