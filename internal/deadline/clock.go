// Package deadline decides whether a meal selection is still open at a
// given instant. Same-day picks close early in the morning so the kitchen
// can prep; next-day picks close in the evening.
package deadline

import (
	"time"

	"github.com/ramothapp/canteen-backend/internal/models"
)

// Day offsets relative to the request's wall-clock date.
const (
	OffsetToday    = 0
	OffsetTomorrow = 1
)

// Clock is a pure predicate over wall-clock time. Cutoff hours come from
// config; all evaluation happens in the site's local timezone regardless of
// the location attached to the caller's time.Time.
type Clock struct {
	todayCutoffHour    int
	tomorrowCutoffHour int
	loc                *time.Location
}

func NewClock(todayCutoffHour, tomorrowCutoffHour int, loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{
		todayCutoffHour:    todayCutoffHour,
		tomorrowCutoffHour: tomorrowCutoffHour,
		loc:                loc,
	}
}

// SelectionAllowed reports whether a selection or deselection targeting
// now's date plus dayOffset is still inside its window. Admins are exempt
// so they can correct records at any time. The result must be recomputed on
// every mutating call; the window can close mid-session.
func (c *Clock) SelectionAllowed(role string, dayOffset int, now time.Time) bool {
	if role == models.RoleAdmin {
		return true
	}

	hour := now.In(c.loc).Hour()
	switch dayOffset {
	case OffsetToday:
		return hour < c.todayCutoffHour
	case OffsetTomorrow:
		return hour < c.tomorrowCutoffHour
	default:
		return false
	}
}

// TargetDate resolves now+dayOffset to the ISO date string used as the
// selection key, in the site timezone.
func (c *Clock) TargetDate(dayOffset int, now time.Time) string {
	return now.In(c.loc).AddDate(0, 0, dayOffset).Format("2006-01-02")
}

// Location exposes the site timezone for callers that format times.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// TomorrowCutoffHour exposes the evening cutoff for reminder copy.
func (c *Clock) TomorrowCutoffHour() int {
	return c.tomorrowCutoffHour
}
