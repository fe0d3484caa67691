package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/example/social-battery/internal/battery"
	"github.com/example/social-battery/internal/persistence"
)

func openTestRepository(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "social_battery.db")
	repo, err := Open("file:" + path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return repo
}

func TestRepositoryLoadEmptyDatabase(t *testing.T) {
	repo := openTestRepository(t)
	_, err := repo.Load(context.Background())
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	lastMet := time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)
	override := battery.TimesPerMonth(2)
	remote := 42
	want := persistence.Snapshot{
		Friends: []persistence.Friend{
			{ID: "friend-1", Name: "Robyn", Color: "#2563eb", LastMet: &lastMet},
			{ID: "friend-2", Name: "Tess", Color: "#f97316", MaxFrequency: &override},
			{ID: "friend-3", Name: "alice@example.com", Color: "#6b7280", RemoteBattery: &remote, OwnerEmail: "alice@example.com"},
		},
		Availability: battery.Availability{Weekdays: []time.Weekday{time.Sunday, time.Saturday}, Notes: "mornings only"},
		Frequency:    battery.TimesPerWeek(1),
		Incoming: []persistence.ConnectionRequest{
			{ID: "req-1", SenderEmail: "alice@example.com", ReceiverEmail: "bob@example.com", Preferences: "weekends", SentAt: lastMet, Status: "pending"},
		},
		Sent: []persistence.ConnectionRequest{
			{ID: "req-2", SenderEmail: "bob@example.com", ReceiverEmail: "carol@example.com", SentAt: lastMet, Status: "pending"},
		},
		Meetings: []persistence.ScheduledMeeting{
			{ID: "meeting-1", FriendID: "friend-1", Date: lastMet.AddDate(0, 0, 7), CreatedAt: lastMet, Accepted: false},
			{ID: "meeting-2", FriendID: "friend-2", Date: lastMet.AddDate(0, 0, 3), CreatedAt: lastMet, Accepted: true},
		},
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRepositorySaveOverwritesPrevious(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	first := persistence.Snapshot{
		Friends:      []persistence.Friend{{ID: "friend-1", Name: "Robyn", Color: "#2563eb"}},
		Availability: battery.Weekends(),
		Frequency:    battery.TimesPerWeek(1),
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := persistence.Snapshot{
		Availability: battery.Weekdays(),
		Frequency:    battery.TimesPerMonth(3),
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Friends) != 0 {
		t.Fatalf("expected friends cleared, got %d", len(got.Friends))
	}
	if got.Frequency != second.Frequency {
		t.Fatalf("frequency = %+v, want %+v", got.Frequency, second.Frequency)
	}
}

func TestWeekdayEncoding(t *testing.T) {
	days := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}
	encoded := encodeWeekdays(days)
	decoded, err := decodeWeekdays(encoded)
	if err != nil {
		t.Fatalf("decodeWeekdays: %v", err)
	}
	if !reflect.DeepEqual(decoded, days) {
		t.Fatalf("decoded %v, want %v", decoded, days)
	}

	if _, err := decodeWeekdays("1,x"); err == nil {
		t.Fatal("expected error for malformed weekday list")
	}

	empty, err := decodeWeekdays("")
	if err != nil || empty != nil {
		t.Fatalf("empty input should decode to nil, got %v, %v", empty, err)
	}
}
