package social

import "github.com/example/social-battery/internal/persistence"

// snapshotLocked builds the full-state snapshot written after each mutation.
func (s *Store) snapshotLocked() persistence.Snapshot {
	snap := persistence.Snapshot{
		Friends:      make([]persistence.Friend, 0, len(s.friends)),
		Availability: s.settings.Availability,
		Frequency:    s.settings.Frequency,
		Incoming:     make([]persistence.ConnectionRequest, 0, len(s.incoming)),
		Sent:         make([]persistence.ConnectionRequest, 0, len(s.sent)),
		Meetings:     make([]persistence.ScheduledMeeting, 0, len(s.meetings)),
	}
	for _, f := range s.friends {
		snap.Friends = append(snap.Friends, persistence.Friend{
			ID:            f.ID,
			Name:          f.Name,
			Color:         f.Color,
			LastMet:       f.LastMet,
			MaxFrequency:  f.MaxFrequency,
			RemoteBattery: f.RemoteBattery,
			OwnerEmail:    f.OwnerEmail,
		})
	}
	for _, r := range s.incoming {
		snap.Incoming = append(snap.Incoming, requestRecord(r))
	}
	for _, r := range s.sent {
		snap.Sent = append(snap.Sent, requestRecord(r))
	}
	for _, m := range s.meetings {
		snap.Meetings = append(snap.Meetings, persistence.ScheduledMeeting{
			ID:        m.ID,
			FriendID:  m.FriendID,
			Date:      m.Date,
			CreatedAt: m.CreatedAt,
			Accepted:  m.Accepted,
		})
	}
	return snap
}

// applySnapshotLocked replaces the in-memory state with a restored snapshot.
func (s *Store) applySnapshotLocked(snap persistence.Snapshot) {
	s.friends = make([]Friend, 0, len(snap.Friends))
	for _, f := range snap.Friends {
		s.friends = append(s.friends, Friend{
			ID:            f.ID,
			Name:          f.Name,
			Color:         f.Color,
			LastMet:       f.LastMet,
			MaxFrequency:  f.MaxFrequency,
			RemoteBattery: f.RemoteBattery,
			OwnerEmail:    f.OwnerEmail,
		})
	}
	s.incoming = make([]ConnectionRequest, 0, len(snap.Incoming))
	for _, r := range snap.Incoming {
		s.incoming = append(s.incoming, domainRequest(r))
	}
	s.sent = make([]ConnectionRequest, 0, len(snap.Sent))
	for _, r := range snap.Sent {
		s.sent = append(s.sent, domainRequest(r))
	}
	s.meetings = make([]ScheduledMeeting, 0, len(snap.Meetings))
	for _, m := range snap.Meetings {
		s.meetings = append(s.meetings, ScheduledMeeting{
			ID:        m.ID,
			FriendID:  m.FriendID,
			Date:      m.Date,
			CreatedAt: m.CreatedAt,
			Accepted:  m.Accepted,
		})
	}
	s.settings = Settings{Availability: snap.Availability, Frequency: snap.Frequency}
}

func requestRecord(r ConnectionRequest) persistence.ConnectionRequest {
	return persistence.ConnectionRequest{
		ID:            r.ID,
		SenderEmail:   r.SenderEmail,
		ReceiverEmail: r.ReceiverEmail,
		Preferences:   r.Preferences,
		SentAt:        r.SentAt,
		Status:        string(r.Status),
	}
}

func domainRequest(r persistence.ConnectionRequest) ConnectionRequest {
	return ConnectionRequest{
		ID:            r.ID,
		SenderEmail:   r.SenderEmail,
		ReceiverEmail: r.ReceiverEmail,
		Preferences:   r.Preferences,
		SentAt:        r.SentAt,
		Status:        RequestStatus(r.Status),
	}
}
