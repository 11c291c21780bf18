package bookings

import "time"

// Selection tracks the three independent booking choices. The zero value is
// an empty selection.
type Selection struct {
	ClinicID string
	Date     time.Time
	TimeSlot string
}

// SelectClinic sets the clinic id unconditionally; the id is not checked
// against the catalog.
func (s *Selection) SelectClinic(id string) {
	s.ClinicID = id
}

// SelectDate accepts d only when it falls within [today, today+1 year].
// An out-of-window date leaves the selection unchanged; the return value
// reports whether the date was taken.
func (s *Selection) SelectDate(d time.Time) bool {
	if !dateInWindow(time.Now(), d) {
		return false
	}
	s.Date = truncateToDay(d)
	return true
}

// SelectTime accepts a slot from the enumerated list; anything else is
// ignored.
func (s *Selection) SelectTime(slot string) bool {
	if !ValidSlot(slot) {
		return false
	}
	s.TimeSlot = slot
	return true
}

// Complete reports whether clinic, date, and time slot are all set.
func (s *Selection) Complete() bool {
	return s.ClinicID != "" && !s.Date.IsZero() && s.TimeSlot != ""
}

// Reset clears all three choices.
func (s *Selection) Reset() {
	*s = Selection{}
}

// dateInWindow reports whether d (compared at day granularity) lies within
// [today, today+1 year] relative to now.
func dateInWindow(now, d time.Time) bool {
	today := truncateToDay(now)
	day := truncateToDay(d)
	return !day.Before(today) && !day.After(today.AddDate(1, 0, 0))
}

// truncateToDay normalizes t to midnight UTC on its own calendar day.
// Request dates are parsed in UTC while now is server-local; comparing raw
// instants would shift the window by the zone offset, so both sides are
// reduced to their calendar date first.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
