package social

import "github.com/example/social-battery/internal/battery"

// seedSampleLocked installs the fixed sample dataset and default policy used
// when no usable snapshot exists.
func (s *Store) seedSampleLocked() {
	now := s.now()
	twoDaysAgo := now.AddDate(0, 0, -2)
	tenDaysAgo := now.AddDate(0, 0, -10)
	sixtyDaysAgo := now.AddDate(0, 0, -60)
	twicePerMonth := battery.TimesPerMonth(2)
	oncePerMonth := battery.TimesPerMonth(1)

	s.friends = []Friend{
		{ID: s.idGenerator(), Name: "Robyn", Color: "#2563eb", LastMet: &twoDaysAgo},
		{ID: s.idGenerator(), Name: "Tess", Color: "#f97316", LastMet: &tenDaysAgo, MaxFrequency: &twicePerMonth},
		{ID: s.idGenerator(), Name: "Lily", Color: "#ec4899", LastMet: &sixtyDaysAgo, MaxFrequency: &oncePerMonth},
	}
	s.incoming = nil
	s.sent = nil
	s.meetings = nil
	s.settings = Settings{Availability: battery.Weekends(), Frequency: battery.TimesPerWeek(1)}
}
