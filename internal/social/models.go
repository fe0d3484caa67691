package social

import (
	"time"

	"github.com/example/social-battery/internal/battery"
)

// DefaultColor is assigned to friends created without an explicit color,
// including placeholder friends created on connection acceptance.
const DefaultColor = "#2563eb"

// Friend is a tracked person. LastMet is absent for friends never met;
// MaxFrequency overrides the global policy when present. RemoteBattery is a
// percentage published by the friend's own device and takes precedence over
// the locally computed reading. OwnerEmail is set when the friend represents
// a remote connected user.
type Friend struct {
	ID            string
	Name          string
	Color         string
	LastMet       *time.Time
	MaxFrequency  *battery.FrequencyLimit
	RemoteBattery *int
	OwnerEmail    string
}

// subject converts the friend into engine input.
func (f Friend) subject() battery.Subject {
	return battery.Subject{LastMet: f.LastMet, MaxFrequency: f.MaxFrequency}
}

// ScheduledMeeting is a proposed meeting with a friend. It is created
// unaccepted; acceptance is its only mutation and is terminal.
type ScheduledMeeting struct {
	ID        string
	FriendID  string
	Date      time.Time
	CreatedAt time.Time
	Accepted  bool
}

// RequestStatus is the lifecycle state of a connection request.
type RequestStatus string

const (
	// RequestPending marks a request awaiting a receiver decision.
	RequestPending RequestStatus = "pending"
	// RequestAccepted marks a request the receiver accepted.
	RequestAccepted RequestStatus = "accepted"
	// RequestRejected is defined by the data model but no operation sets it
	// yet; rejection handling is deliberately unimplemented.
	RequestRejected RequestStatus = "rejected"
)

// ConnectionRequest is a directed invitation between two identities to
// become tracked friends. The sender keeps a copy in its sent list while an
// independent copy travels to the receiver's incoming list.
type ConnectionRequest struct {
	ID            string
	SenderEmail   string
	ReceiverEmail string
	Preferences   string
	SentAt        time.Time
	Status        RequestStatus
}

// Settings is the global policy pair surfaced to callers.
type Settings struct {
	Availability battery.Availability
	Frequency    battery.FrequencyLimit
}

// Policy converts the settings into engine input.
func (s Settings) Policy() battery.Policy {
	return battery.Policy{Availability: s.Availability, Frequency: s.Frequency}
}
