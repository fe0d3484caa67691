package persistence

import (
	"time"

	"github.com/example/social-battery/internal/battery"
)

// Friend is the stored form of a tracked friend.
type Friend struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Color         string                  `json:"color"`
	LastMet       *time.Time              `json:"lastMet,omitempty"`
	MaxFrequency  *battery.FrequencyLimit `json:"maxFrequency,omitempty"`
	RemoteBattery *int                    `json:"remoteBattery,omitempty"`
	OwnerEmail    string                  `json:"ownerEmail,omitempty"`
}

// ConnectionRequest is the stored form of a directed friend-connection
// request. Status is one of "pending", "accepted" or "rejected".
type ConnectionRequest struct {
	ID            string    `json:"id"`
	SenderEmail   string    `json:"senderEmail"`
	ReceiverEmail string    `json:"receiverEmail"`
	Preferences   string    `json:"preferences,omitempty"`
	SentAt        time.Time `json:"sentAt"`
	Status        string    `json:"status"`
}

// ScheduledMeeting is the stored form of a proposed or confirmed meeting.
type ScheduledMeeting struct {
	ID        string    `json:"id"`
	FriendID  string    `json:"friendId"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	Accepted  bool      `json:"accepted"`
}

// Snapshot is the full application state written and read as one atomic
// unit. There is no migration logic; a decode failure of any field fails
// the whole load.
type Snapshot struct {
	Friends      []Friend               `json:"friends"`
	Availability battery.Availability   `json:"availability"`
	Frequency    battery.FrequencyLimit `json:"frequency"`
	Incoming     []ConnectionRequest    `json:"incoming"`
	Sent         []ConnectionRequest    `json:"sent"`
	Meetings     []ScheduledMeeting     `json:"meetings"`
}
