package reports

import "time"

// ScheduleRow is one event on a band's schedule joined with its venue
// name, ready for export.
type ScheduleRow struct {
	Title     string
	Type      string
	Status    string
	StartsAt  time.Time
	EndsAt    time.Time
	VenueName string
	Notes     string
}
