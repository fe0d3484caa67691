package cli

import (
	"testing"
	"time"

	"github.com/example/social-battery/internal/battery"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name    string
		times   int
		per     string
		want    battery.FrequencyLimit
		wantErr bool
	}{
		{"weekly", 2, "week", battery.TimesPerWeek(2), false},
		{"monthly", 1, "month", battery.TimesPerMonth(1), false},
		{"case insensitive", 3, " Week ", battery.TimesPerWeek(3), false},
		{"unknown unit", 1, "fortnight", battery.FrequencyLimit{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFrequency(tt.times, tt.per)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAvailability(t *testing.T) {
	t.Run("weekends preset", func(t *testing.T) {
		got, err := parseAvailability("weekends")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Allows(time.Saturday) || !got.Allows(time.Sunday) || got.Allows(time.Monday) {
			t.Errorf("unexpected availability: %+v", got)
		}
	})

	t.Run("day list", func(t *testing.T) {
		got, err := parseAvailability("mon, Wed ,friday")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, day := range []time.Weekday{time.Monday, time.Wednesday, time.Friday} {
			if !got.Allows(day) {
				t.Errorf("expected %s to be allowed", day)
			}
		}
		if got.Allows(time.Tuesday) {
			t.Error("Tuesday should not be allowed")
		}
	})

	t.Run("unknown day", func(t *testing.T) {
		if _, err := parseAvailability("mon,noday"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestParseDate(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		got, err := parseDate("2024-03-12")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Year() != 2024 || got.Month() != time.March || got.Day() != 12 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("empty defaults to now", func(t *testing.T) {
		got, err := parseDate("  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if time.Since(got) > time.Minute {
			t.Errorf("expected roughly now, got %v", got)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := parseDate("12/03/2024"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
