// Package social holds the aggregate application state: the friend
// registry, the meeting scheduler and the connection request lists. The
// Store owns every collection and is their sole mutator; all decision logic
// is delegated to the battery engine. Each mutation ends with an atomic
// snapshot persist, and remote side effects run fire-and-forget through the
// tasks runner.
package social

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/social-battery/internal/battery"
	"github.com/example/social-battery/internal/logging"
	"github.com/example/social-battery/internal/notify"
	"github.com/example/social-battery/internal/persistence"
	"github.com/example/social-battery/internal/tasks"
)

// RemoteClient is the remote collaborator boundary. Every call is one shot
// and best effort; failures are never fatal to the triggering operation.
type RemoteClient interface {
	PublishBattery(ctx context.Context, email string, percent int) error
	SendConnectionRequest(ctx context.Context, req ConnectionRequest) error
	FetchIncomingRequests(ctx context.Context, email string) ([]ConnectionRequest, error)
	RegisterNotificationTarget(ctx context.Context, token, email string) error
}

// Store is the aggregate root. All reads and mutations go through it.
type Store struct {
	mu       sync.RWMutex
	friends  []Friend
	incoming []ConnectionRequest
	sent     []ConnectionRequest
	meetings []ScheduledMeeting
	settings Settings

	repo        persistence.SnapshotRepository
	remote      RemoteClient
	notifier    notify.Notifier
	runner      *tasks.Runner
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	subMu       sync.Mutex
	subscribers []func()
}

// NewStore constructs a store with the provided collaborators. The remote
// client and notifier may be nil, in which case the corresponding side
// effects are skipped.
func NewStore(repo persistence.SnapshotRepository, remote RemoteClient, notifier notify.Notifier, runner *tasks.Runner, idGenerator func() string, now func() time.Time) *Store {
	return NewStoreWithLogger(repo, remote, notifier, runner, idGenerator, now, nil)
}

// NewStoreWithLogger constructs a store with a specified logger.
func NewStoreWithLogger(repo persistence.SnapshotRepository, remote RemoteClient, notifier notify.Notifier, runner *tasks.Runner, idGenerator func() string, now func() time.Time, logger *slog.Logger) *Store {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if runner == nil {
		runner = tasks.NewRunner(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:        repo,
		remote:      remote,
		notifier:    notifier,
		runner:      runner,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
		settings:    Settings{Availability: battery.Weekends(), Frequency: battery.TimesPerWeek(1)},
	}
}

func (s *Store) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = s.logger
	}
	pairs := []any{"service", "Store", "operation", operation}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// Load restores the persisted snapshot. Any failure, a missing snapshot
// included, silently falls back to the sample dataset and default policy;
// this is a recovery path, not an error surfaced to the user.
func (s *Store) Load(ctx context.Context) {
	logger := s.loggerWith(ctx, "Load")

	var snap persistence.Snapshot
	err := persistence.ErrNotFound
	if s.repo != nil {
		snap, err = s.repo.Load(ctx)
	}

	s.mu.Lock()
	if err != nil {
		s.seedSampleLocked()
		s.mu.Unlock()
		logger.InfoContext(ctx, "snapshot unavailable, seeded sample data", "reason", err)
		return
	}
	s.applySnapshotLocked(snap)
	friends := len(s.friends)
	s.mu.Unlock()
	logger.InfoContext(ctx, "snapshot restored", "friends", friends)
}

// AddFriendParams captures caller provided friend fields.
type AddFriendParams struct {
	Name         string
	Color        string
	MaxFrequency *battery.FrequencyLimit
}

// AddFriend appends a new friend with no meeting history.
func (s *Store) AddFriend(ctx context.Context, params AddFriendParams) (Friend, error) {
	logger := s.loggerWith(ctx, "AddFriend")

	vErr := &ValidationError{}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		logger.ErrorContext(ctx, "failed to add friend", "error", vErr, "error_kind", ErrorKind(vErr))
		return Friend{}, vErr
	}

	color := strings.TrimSpace(params.Color)
	if color == "" {
		color = DefaultColor
	}
	friend := Friend{
		ID:           s.idGenerator(),
		Name:         name,
		Color:        color,
		MaxFrequency: params.MaxFrequency,
	}

	s.mu.Lock()
	s.friends = append(s.friends, friend)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifySubscribers()
	logger.InfoContext(ctx, "friend added", "friend_id", friend.ID)
	return friend, nil
}

// Status resolves the battery reading for a friend. When the friend carries
// a remotely published percentage that value wins (clamped), while the
// recommended date still comes from the local engine. When the friend has an
// owning remote identity and no published value, the locally computed
// percentage is pushed to the remote collaborator as a fire-and-forget side
// effect of the read. Returns false when the friend is unknown.
func (s *Store) Status(ctx context.Context, friendID string) (battery.Status, bool) {
	s.mu.RLock()
	idx := s.friendIndexLocked(friendID)
	if idx < 0 {
		s.mu.RUnlock()
		return battery.Status{}, false
	}
	friend := s.friends[idx]
	policy := s.settings.Policy()
	s.mu.RUnlock()

	status := battery.ComputeStatus(friend.subject(), policy, s.now())

	if friend.RemoteBattery != nil {
		status.Percent = clampPercent(*friend.RemoteBattery)
		return status, true
	}

	if friend.OwnerEmail != "" && s.remote != nil {
		email := friend.OwnerEmail
		percent := status.Percent
		s.runner.Go("publish-battery", func(taskCtx context.Context) error {
			return s.remote.PublishBattery(taskCtx, email, percent)
		})
	}
	return status, true
}

// ScheduleMeeting records a proposed meeting in the pending state. It does
// not touch the friend's last-met date; only acceptance does.
func (s *Store) ScheduleMeeting(ctx context.Context, friendID string, date time.Time) (ScheduledMeeting, error) {
	logger := s.loggerWith(ctx, "ScheduleMeeting", "friend_id", friendID)

	s.mu.Lock()
	if s.friendIndexLocked(friendID) < 0 {
		s.mu.Unlock()
		logger.ErrorContext(ctx, "failed to schedule meeting", "error", ErrNotFound, "error_kind", ErrorKind(ErrNotFound))
		return ScheduledMeeting{}, ErrNotFound
	}
	meeting := ScheduledMeeting{
		ID:        s.idGenerator(),
		FriendID:  friendID,
		Date:      date,
		CreatedAt: s.now(),
	}
	s.meetings = append(s.meetings, meeting)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifySubscribers()
	logger.InfoContext(ctx, "meeting scheduled", "meeting_id", meeting.ID)
	return meeting, nil
}

// AcceptMeeting marks the meeting accepted and sets the friend's last-met
// date to the meeting date. Unknown meeting ids are a silent no-op. Repeat
// calls re-apply the same last-met value; there is no idempotency guard.
func (s *Store) AcceptMeeting(ctx context.Context, meetingID string) {
	logger := s.loggerWith(ctx, "AcceptMeeting", "meeting_id", meetingID)

	s.mu.Lock()
	idx := -1
	for i := range s.meetings {
		if s.meetings[i].ID == meetingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		logger.DebugContext(ctx, "unknown meeting id ignored")
		return
	}
	s.meetings[idx].Accepted = true
	date := s.meetings[idx].Date
	if fIdx := s.friendIndexLocked(s.meetings[idx].FriendID); fIdx >= 0 {
		s.friends[fIdx].LastMet = &date
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifySubscribers()
	logger.InfoContext(ctx, "meeting accepted")
}

// RecordMeeting is the one-step path used when a meeting already happened:
// it stores the meeting as accepted and updates the friend immediately.
func (s *Store) RecordMeeting(ctx context.Context, friendID string, date time.Time) (ScheduledMeeting, error) {
	meeting, err := s.ScheduleMeeting(ctx, friendID, date)
	if err != nil {
		return ScheduledMeeting{}, err
	}
	s.AcceptMeeting(ctx, meeting.ID)
	meeting.Accepted = true
	return meeting, nil
}

// UpdateSettings replaces the global availability and frequency wholesale.
func (s *Store) UpdateSettings(ctx context.Context, availability battery.Availability, frequency battery.FrequencyLimit) {
	logger := s.loggerWith(ctx, "UpdateSettings")

	s.mu.Lock()
	s.settings = Settings{Availability: availability, Frequency: frequency}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifySubscribers()
	logger.InfoContext(ctx, "settings updated", "frequency_unit", string(frequency.Unit), "frequency_count", frequency.Count)
}

// SendConnectionRequest appends a pending request to the sent list and
// attempts remote delivery in the background. The local record persists
// regardless of the delivery outcome.
func (s *Store) SendConnectionRequest(ctx context.Context, senderEmail, receiverEmail, preferences string) (ConnectionRequest, error) {
	logger := s.loggerWith(ctx, "SendConnectionRequest", "receiver", receiverEmail)

	vErr := &ValidationError{}
	if !validEmail(senderEmail) {
		vErr.add("senderEmail", "a valid sender email is required")
	}
	if !validEmail(receiverEmail) {
		vErr.add("receiverEmail", "a valid receiver email is required")
	}
	if vErr.HasErrors() {
		logger.ErrorContext(ctx, "failed to send connection request", "error", vErr, "error_kind", ErrorKind(vErr))
		return ConnectionRequest{}, vErr
	}

	req := ConnectionRequest{
		ID:            s.idGenerator(),
		SenderEmail:   strings.TrimSpace(senderEmail),
		ReceiverEmail: strings.TrimSpace(receiverEmail),
		Preferences:   strings.TrimSpace(preferences),
		SentAt:        s.now(),
		Status:        RequestPending,
	}

	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.persistLocked(ctx)
	s.mu.Unlock()

	if s.remote != nil {
		delivery := req
		s.runner.Go("send-connection-request", func(taskCtx context.Context) error {
			return s.remote.SendConnectionRequest(taskCtx, delivery)
		})
	}

	s.notifySubscribers()
	logger.InfoContext(ctx, "connection request sent", "request_id", req.ID)
	return req, nil
}

// ReceiveConnectionRequest appends a delivered copy to the incoming list and
// raises a user notification. Requests already present are skipped so the
// polling worker can re-deliver the same batch safely.
func (s *Store) ReceiveConnectionRequest(ctx context.Context, req ConnectionRequest) {
	logger := s.loggerWith(ctx, "ReceiveConnectionRequest", "request_id", req.ID)

	if req.Status == "" {
		req.Status = RequestPending
	}

	s.mu.Lock()
	for i := range s.incoming {
		if s.incoming[i].ID == req.ID {
			s.mu.Unlock()
			logger.DebugContext(ctx, "duplicate delivery ignored")
			return
		}
	}
	s.incoming = append(s.incoming, req)
	s.persistLocked(ctx)
	s.mu.Unlock()

	if s.notifier != nil {
		sender := req.SenderEmail
		s.runner.Go("notify-connection-request", func(taskCtx context.Context) error {
			return s.notifier.Notify(taskCtx, "New connection request", fmt.Sprintf("%s wants to connect", sender))
		})
	}

	s.notifySubscribers()
	logger.InfoContext(ctx, "connection request received", "sender", req.SenderEmail)
}

// AcceptConnectionRequest removes the request from the incoming list and
// ensures a friend exists for the sender identity, creating a placeholder
// with no history when needed. Unknown ids are a silent no-op.
func (s *Store) AcceptConnectionRequest(ctx context.Context, requestID string) {
	logger := s.loggerWith(ctx, "AcceptConnectionRequest", "request_id", requestID)

	s.mu.Lock()
	idx := -1
	for i := range s.incoming {
		if s.incoming[i].ID == requestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		logger.DebugContext(ctx, "unknown request id ignored")
		return
	}

	req := s.incoming[idx]
	req.Status = RequestAccepted
	s.incoming = append(s.incoming[:idx], s.incoming[idx+1:]...)

	sender := req.SenderEmail
	known := false
	for i := range s.friends {
		if s.friends[i].OwnerEmail == sender || s.friends[i].Name == sender {
			known = true
			break
		}
	}
	var created string
	if !known {
		friend := Friend{
			ID:         s.idGenerator(),
			Name:       sender,
			Color:      DefaultColor,
			OwnerEmail: sender,
		}
		s.friends = append(s.friends, friend)
		created = friend.ID
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifySubscribers()
	logger.InfoContext(ctx, "connection request accepted", "sender", sender, "created_friend_id", created)
}

// CancelSentRequest removes the request from the sent list outright. No
// remote cancellation is propagated. Unknown ids are a silent no-op.
func (s *Store) CancelSentRequest(ctx context.Context, requestID string) {
	logger := s.loggerWith(ctx, "CancelSentRequest", "request_id", requestID)

	s.mu.Lock()
	idx := -1
	for i := range s.sent {
		if s.sent[i].ID == requestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		logger.DebugContext(ctx, "unknown request id ignored")
		return
	}
	s.sent = append(s.sent[:idx], s.sent[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifySubscribers()
	logger.InfoContext(ctx, "sent request cancelled")
}

// Friends returns a copy of the friend list.
func (s *Store) Friends() []Friend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Friend, len(s.friends))
	copy(out, s.friends)
	return out
}

// FriendByName returns the first friend with the given display name.
func (s *Store) FriendByName(name string) (Friend, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.friends {
		if f.Name == name {
			return f, true
		}
	}
	return Friend{}, false
}

// IncomingRequests returns a copy of the incoming request list.
func (s *Store) IncomingRequests() []ConnectionRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ConnectionRequest, len(s.incoming))
	copy(out, s.incoming)
	return out
}

// SentRequests returns a copy of the sent request list.
func (s *Store) SentRequests() []ConnectionRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ConnectionRequest, len(s.sent))
	copy(out, s.sent)
	return out
}

// Meetings returns a copy of the scheduled meeting list.
func (s *Store) Meetings() []ScheduledMeeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScheduledMeeting, len(s.meetings))
	copy(out, s.meetings)
	return out
}

// Settings returns the current global policy.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Subscribe registers an observer invoked after every successful mutation.
// Observers run outside the store lock and must not block for long.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Store) notifySubscribers() {
	s.subMu.Lock()
	observers := make([]func(), len(s.subscribers))
	copy(observers, s.subscribers)
	s.subMu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

// persistLocked writes the current state snapshot. A write failure is
// logged; in-memory state stays authoritative for the running session.
func (s *Store) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist snapshot", "error", err)
	}
}

func (s *Store) friendIndexLocked(friendID string) int {
	for i := range s.friends {
		if s.friends[i].ID == friendID {
			return i
		}
	}
	return -1
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
