package schedule

import (
	"time"
)

// Calendar places weeks on dates. Week one falls on Start and each following
// week seven days later, skipping any week whose date is a bye.
type Calendar struct {
	Start time.Time
	Byes  []time.Time
}

// Dates returns the date of each of the first n weeks, or nil when Start is
// unset.
func (c Calendar) Dates(n int) []time.Time {
	if c.Start.IsZero() {
		return nil
	}

	byes := make(map[time.Time]bool, len(c.Byes))
	for _, b := range c.Byes {
		byes[dateOnly(b)] = true
	}

	dates := make([]time.Time, 0, n)
	d := dateOnly(c.Start)
	for len(dates) < n {
		if !byes[d] {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 7)
	}
	return dates
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
