package battery

import (
	"math"
	"time"
)

// Policy carries the global availability calendar and meeting frequency that
// apply when a subject has no per-friend override.
type Policy struct {
	Availability Availability
	Frequency    FrequencyLimit
}

// Subject is the per-friend input to the engine: when the friend was last
// met, if ever, and an optional frequency override that takes precedence
// over the policy's global rate.
type Subject struct {
	LastMet      *time.Time
	MaxFrequency *FrequencyLimit
}

// Status is the derived battery reading for a subject. It is recomputed on
// every read and never persisted.
type Status struct {
	Percent         int
	NextRecommended time.Time
}

// ComputeStatus derives the current energy percentage and the next
// recommended meeting date for a subject.
//
// The effective frequency is the subject's override when present, otherwise
// the policy's global rate. A subject that was never met is treated as due
// immediately: the recommendation starts from now, and the percentage uses a
// synthetic last-met of now minus the frequency interval. That synthetic
// value is deliberate and must not be "corrected" to show new friends at
// full charge.
//
// Guarantees: the percentage is clamped to [0,100], the recommended date
// never precedes the base date, and for a fixed policy and last-met the
// percentage is non-increasing as now advances.
func ComputeStatus(subject Subject, policy Policy, now time.Time) Status {
	effective := policy.Frequency
	if subject.MaxFrequency != nil {
		effective = *subject.MaxFrequency
	}
	days := effective.DaysInterval()

	base := now
	if subject.LastMet != nil {
		base = subject.LastMet.AddDate(0, 0, days)
	}
	next := policy.Availability.NextMatchingDate(base)

	last := now.AddDate(0, 0, -days)
	if subject.LastMet != nil {
		last = *subject.LastMet
	}
	since := wholeDaysBetween(StartOfDay(last), StartOfDay(now))
	ratio := math.Min(1.0, float64(since)/float64(days))
	percent := 100 - int(math.Round(ratio*100))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return Status{Percent: percent, NextRecommended: next}
}

// wholeDaysBetween counts calendar days from a to b. Both arguments are
// expected to be start-of-day values; rounding absorbs DST offsets.
func wholeDaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
