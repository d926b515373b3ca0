package data

import "time"

// RecencyLabel renders a message timestamp as the human label shown in the
// contact list: same-day messages show the clock time, yesterday's show
// "Yesterday", this week's the short weekday name, older ones the date.
// A zero time (no message exists) yields an empty label.
func RecencyLabel(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	switch days := calendarDaysBetween(t, now); {
	case days <= 0:
		return t.Format("3:04 PM")
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Format("Mon")
	default:
		return t.Format("1/2/2006")
	}
}

// calendarDaysBetween counts midnight boundaries crossed between t and now,
// so 23:59 to 00:01 is one day even though only minutes passed.
func calendarDaysBetween(t, now time.Time) int {
	ty, tm, td := t.Local().Date()
	ny, nm, nd := now.Local().Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, time.Local)
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, time.Local)
	return int(end.Sub(start).Hours() / 24)
}
