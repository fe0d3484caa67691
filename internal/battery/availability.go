package battery

import (
	"sort"
	"time"
)

// searchWindowDays bounds the forward scan performed by NextMatchingDate.
// Four weeks always contains every weekday at least once, so the bound is
// only reached when the allowed set is empty.
const searchWindowDays = 28

// Availability describes which days of the week are eligible for a meeting.
// It is an immutable value; settings updates replace it wholesale.
type Availability struct {
	Weekdays []time.Weekday `json:"weekdays"`
	Notes    string         `json:"notes,omitempty"`
}

// Weekends returns an availability covering Saturday and Sunday.
func Weekends() Availability {
	return Availability{Weekdays: []time.Weekday{time.Sunday, time.Saturday}}
}

// Weekdays returns an availability covering Monday through Friday.
func Weekdays() Availability {
	return Availability{Weekdays: []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}}
}

// Specific returns an availability restricted to the supplied days.
// Duplicates are removed and the result is kept in weekday order.
func Specific(days ...time.Weekday) Availability {
	seen := make(map[time.Weekday]bool, len(days))
	unique := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return Availability{Weekdays: unique}
}

// Allows reports whether the given weekday is eligible for a meeting.
func (a Availability) Allows(day time.Weekday) bool {
	for _, d := range a.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// NextMatchingDate returns the first eligible date on or after the start of
// day of from, scanning forward one day at a time. When the allowed set is
// empty no day can match; the end of the scan window is returned as a
// degraded fallback and callers should treat the empty set as a
// configuration error rather than rely on that value.
func (a Availability) NextMatchingDate(from time.Time) time.Time {
	day := StartOfDay(from)
	for i := 0; i < searchWindowDays; i++ {
		if a.Allows(day.Weekday()) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
