package battery

// FrequencyUnit identifies the period a meeting rate is expressed against.
type FrequencyUnit string

const (
	// PerWeek expresses the rate as meetings per week.
	PerWeek FrequencyUnit = "per_week"
	// PerMonth expresses the rate as meetings per month.
	PerMonth FrequencyUnit = "per_month"
)

// FrequencyLimit is an ideal meeting rate, either N times per week or N
// times per month. It is an immutable value type with no error paths; out of
// range counts are clamped rather than rejected.
type FrequencyLimit struct {
	Unit  FrequencyUnit `json:"unit"`
	Count int           `json:"count"`
}

// TimesPerWeek returns a weekly rate of n meetings.
func TimesPerWeek(n int) FrequencyLimit {
	return FrequencyLimit{Unit: PerWeek, Count: n}
}

// TimesPerMonth returns a monthly rate of n meetings.
func TimesPerMonth(n int) FrequencyLimit {
	return FrequencyLimit{Unit: PerMonth, Count: n}
}

// DaysInterval converts the rate into the whole number of days that should
// elapse between ideal meetings. Counts below one are treated as one, and
// the result never drops below a single day.
func (f FrequencyLimit) DaysInterval() int {
	n := f.Count
	if n < 1 {
		n = 1
	}
	span := 7
	if f.Unit == PerMonth {
		span = 30
	}
	interval := span / n
	if interval < 1 {
		interval = 1
	}
	return interval
}
