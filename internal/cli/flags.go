package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/social-battery/internal/battery"
)

const dateLayout = "2006-01-02"

// parseFrequency turns --times/--per flags into a frequency limit.
// per accepts "week" or "month".
func parseFrequency(times int, per string) (battery.FrequencyLimit, error) {
	switch strings.ToLower(strings.TrimSpace(per)) {
	case "week":
		return battery.TimesPerWeek(times), nil
	case "month":
		return battery.TimesPerMonth(times), nil
	default:
		return battery.FrequencyLimit{}, fmt.Errorf("unknown frequency unit %q (want week or month)", per)
	}
}

// parseAvailability accepts the presets "weekends" and "weekdays" or a
// comma separated list of day names, e.g. "mon,wed,fri".
func parseAvailability(value string) (battery.Availability, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "weekends":
		return battery.Weekends(), nil
	case "weekdays":
		return battery.Weekdays(), nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(value, ",") {
		day, err := parseWeekday(part)
		if err != nil {
			return battery.Availability{}, err
		}
		days = append(days, day)
	}
	return battery.Specific(days...), nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sun", "sunday":
		return time.Sunday, nil
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("unknown weekday %q", name)
	}
}

// parseDate parses a YYYY-MM-DD flag, defaulting to today when empty.
func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now(), nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want %s)", value, dateLayout)
	}
	return date, nil
}
