// Package schedule resolves which calendar dates make up the target weekend
// for a scrape run.
package schedule

import "time"

// TargetWeekend returns the Saturday and Sunday a run should scrape,
// relative to today. Monday through Friday target the upcoming Saturday;
// Saturday and Sunday target the Saturday of the current weekend. The result
// is clamped so it never lands before the season start.
func TargetWeekend(today, seasonStart time.Time) (time.Time, time.Time) {
	day := truncateToDay(today)

	var saturday time.Time
	switch wd := day.Weekday(); wd {
	case time.Saturday:
		saturday = day
	case time.Sunday:
		saturday = day.AddDate(0, 0, -1)
	default:
		// time.Monday is 1, so Saturday is 6-wd days ahead
		saturday = day.AddDate(0, 0, int(time.Saturday-wd))
	}

	if start := truncateToDay(seasonStart); saturday.Before(start) {
		saturday = start
	}

	return saturday, saturday.AddDate(0, 0, 1)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
