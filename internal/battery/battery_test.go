package battery

import (
	"testing"
	"time"
)

// Tuesday, 2024-03-12.
var reference = time.Date(2024, time.March, 12, 10, 30, 0, 0, time.UTC)

func TestFrequencyLimitDaysInterval(t *testing.T) {
	cases := []struct {
		name  string
		limit FrequencyLimit
		want  int
	}{
		{"once per week", TimesPerWeek(1), 7},
		{"twice per week", TimesPerWeek(2), 3},
		{"daily", TimesPerWeek(7), 1},
		{"more than daily clamps to one day", TimesPerWeek(30), 1},
		{"once per month", TimesPerMonth(1), 30},
		{"twice per month", TimesPerMonth(2), 15},
		{"zero count clamps to one", TimesPerWeek(0), 7},
		{"negative count clamps to one", TimesPerMonth(-3), 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.limit.DaysInterval(); got != tc.want {
				t.Fatalf("DaysInterval() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAvailabilityPresets(t *testing.T) {
	if !Weekends().Allows(time.Saturday) || !Weekends().Allows(time.Sunday) {
		t.Fatal("weekends preset should allow Saturday and Sunday")
	}
	if Weekends().Allows(time.Wednesday) {
		t.Fatal("weekends preset should not allow Wednesday")
	}
	if !Weekdays().Allows(time.Monday) || Weekdays().Allows(time.Sunday) {
		t.Fatal("weekdays preset should allow Monday and exclude Sunday")
	}

	specific := Specific(time.Friday, time.Monday, time.Friday)
	if len(specific.Weekdays) != 2 {
		t.Fatalf("Specific should deduplicate, got %v", specific.Weekdays)
	}
	if specific.Weekdays[0] != time.Monday || specific.Weekdays[1] != time.Friday {
		t.Fatalf("Specific should sort weekdays, got %v", specific.Weekdays)
	}
}

func TestNextMatchingDate(t *testing.T) {
	t.Run("includes the starting day", func(t *testing.T) {
		saturday := time.Date(2024, time.March, 16, 18, 0, 0, 0, time.UTC)
		got := Weekends().NextMatchingDate(saturday)
		want := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("NextMatchingDate = %v, want %v", got, want)
		}
	})

	t.Run("scans forward to the next eligible weekday", func(t *testing.T) {
		got := Weekends().NextMatchingDate(reference)
		want := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC) // Saturday
		if !got.Equal(want) {
			t.Fatalf("NextMatchingDate = %v, want %v", got, want)
		}
	})

	t.Run("result falls on an allowed weekday", func(t *testing.T) {
		avail := Specific(time.Wednesday)
		for offset := 0; offset < 14; offset++ {
			from := reference.AddDate(0, 0, offset)
			got := avail.NextMatchingDate(from)
			if got.Weekday() != time.Wednesday {
				t.Fatalf("from %v: got %v (%v)", from, got, got.Weekday())
			}
			if got.Before(StartOfDay(from)) {
				t.Fatalf("from %v: result %v precedes start of day", from, got)
			}
		}
	})

	t.Run("empty set falls back to the end of the window", func(t *testing.T) {
		got := Availability{}.NextMatchingDate(reference)
		want := StartOfDay(reference).AddDate(0, 0, searchWindowDays)
		if !got.Equal(want) {
			t.Fatalf("NextMatchingDate = %v, want %v", got, want)
		}
	})
}

func TestComputeStatusJustMet(t *testing.T) {
	lastMet := reference
	status := ComputeStatus(
		Subject{LastMet: &lastMet},
		Policy{Availability: Weekends(), Frequency: TimesPerWeek(1)},
		reference,
	)
	if status.Percent != 100 {
		t.Fatalf("just-met friend should read 100%%, got %d", status.Percent)
	}
}

func TestComputeStatusNeverMet(t *testing.T) {
	policy := Policy{Availability: Weekends(), Frequency: TimesPerWeek(1)}
	status := ComputeStatus(Subject{}, policy, reference)

	// A never-met friend is treated as exactly due now.
	if status.Percent != 0 {
		t.Fatalf("never-met friend should read 0%%, got %d", status.Percent)
	}
	want := policy.Availability.NextMatchingDate(reference)
	if !status.NextRecommended.Equal(want) {
		t.Fatalf("NextRecommended = %v, want %v", status.NextRecommended, want)
	}
}

func TestComputeStatusBounds(t *testing.T) {
	policy := Policy{Availability: Weekends(), Frequency: TimesPerWeek(1)}
	offsets := []int{-400, -60, -10, -7, -1, 0, 1, 5}
	for _, offset := range offsets {
		lastMet := reference.AddDate(0, 0, offset)
		status := ComputeStatus(Subject{LastMet: &lastMet}, policy, reference)
		if status.Percent < 0 || status.Percent > 100 {
			t.Fatalf("lastMet offset %d: percent %d out of range", offset, status.Percent)
		}
	}
}

func TestComputeStatusMonotonicInNow(t *testing.T) {
	policy := Policy{Availability: Weekends(), Frequency: TimesPerWeek(2)}
	lastMet := reference
	subject := Subject{LastMet: &lastMet}

	previous := 101
	for day := 0; day <= 120; day++ {
		now := reference.AddDate(0, 0, day)
		status := ComputeStatus(subject, policy, now)
		if status.Percent > previous {
			t.Fatalf("day %d: percent rose from %d to %d", day, previous, status.Percent)
		}
		previous = status.Percent
	}
}

func TestComputeStatusOverridePrecedence(t *testing.T) {
	policy := Policy{Availability: Specific(
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	), Frequency: TimesPerWeek(1)}

	lastMet := reference.AddDate(0, 0, -10)
	override := TimesPerMonth(2) // 15 day interval
	status := ComputeStatus(Subject{LastMet: &lastMet, MaxFrequency: &override}, policy, reference)

	// With the 15 day override the friend is 10/15 through the interval.
	// Under the 7 day global rate the reading would already be zero.
	if status.Percent != 33 {
		t.Fatalf("override percent = %d, want 33", status.Percent)
	}
	wantNext := StartOfDay(lastMet).AddDate(0, 0, 15)
	if !status.NextRecommended.Equal(wantNext) {
		t.Fatalf("NextRecommended = %v, want %v", status.NextRecommended, wantNext)
	}
}

func TestComputeStatusRecommendationNeverPrecedesBase(t *testing.T) {
	policy := Policy{Availability: Weekends(), Frequency: TimesPerWeek(1)}
	for offset := -30; offset <= 0; offset++ {
		lastMet := reference.AddDate(0, 0, offset)
		status := ComputeStatus(Subject{LastMet: &lastMet}, policy, reference)
		base := StartOfDay(lastMet.AddDate(0, 0, 7))
		if status.NextRecommended.Before(base) {
			t.Fatalf("offset %d: recommendation %v precedes base %v", offset, status.NextRecommended, base)
		}
		if !policy.Availability.Allows(status.NextRecommended.Weekday()) {
			t.Fatalf("offset %d: recommendation %v on disallowed weekday", offset, status.NextRecommended)
		}
	}
}
