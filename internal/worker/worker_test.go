package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/example/social-battery/internal/social"
	"github.com/example/social-battery/internal/tasks"
	"github.com/example/social-battery/internal/testfixtures"
)

type remoteStub struct {
	mu       sync.Mutex
	incoming []social.ConnectionRequest
	fetchErr error
	fetched  int
	tokens   []string
}

func (r *remoteStub) PublishBattery(ctx context.Context, email string, percent int) error {
	return nil
}

func (r *remoteStub) SendConnectionRequest(ctx context.Context, req social.ConnectionRequest) error {
	return nil
}

func (r *remoteStub) FetchIncomingRequests(ctx context.Context, email string) ([]social.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetched++
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	out := make([]social.ConnectionRequest, len(r.incoming))
	copy(out, r.incoming)
	return out, nil
}

func (r *remoteStub) RegisterNotificationTarget(ctx context.Context, token, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	return nil
}

func newTestStore(t *testing.T) *social.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("id")
	return social.NewStoreWithLogger(nil, nil, nil, tasks.NewRunner(logger), ids.NextFunc(), clock.NowFunc(), logger)
}

func TestPollOnceDeliversRequests(t *testing.T) {
	store := newTestStore(t)
	remote := &remoteStub{incoming: []social.ConnectionRequest{
		{ID: "req-1", SenderEmail: "alice@x.com", ReceiverEmail: "bob@x.com", Status: social.RequestPending},
		{ID: "req-2", SenderEmail: "carol@x.com", ReceiverEmail: "bob@x.com", Status: social.RequestPending},
	}}

	w := New(store, remote, "bob@x.com", time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.pollOnce(context.Background())

	if got := store.IncomingRequests(); len(got) != 2 {
		t.Fatalf("incoming = %d entries, want 2", len(got))
	}

	// A second poll re-delivers the same batch without duplicating it.
	w.pollOnce(context.Background())
	if got := store.IncomingRequests(); len(got) != 2 {
		t.Fatalf("after re-poll incoming = %d entries, want 2", len(got))
	}
}

func TestPollOnceSurvivesFetchFailure(t *testing.T) {
	store := newTestStore(t)
	remote := &remoteStub{fetchErr: errors.New("backend down")}

	w := New(store, remote, "bob@x.com", time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.pollOnce(context.Background())

	if got := store.IncomingRequests(); len(got) != 0 {
		t.Fatalf("incoming = %d entries, want 0", len(got))
	}
}

func TestPollOnceRequiresIdentity(t *testing.T) {
	store := newTestStore(t)
	remote := &remoteStub{}

	w := New(store, remote, "", time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.pollOnce(context.Background())

	if remote.fetched != 0 {
		t.Fatal("no fetch should happen without an identity")
	}
}

func TestRunRegistersDeviceTokenAndStops(t *testing.T) {
	store := newTestStore(t)
	remote := &remoteStub{}

	w := New(store, remote, "bob@x.com", time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.SetDeviceToken("device-token")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	w.Refresh()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.tokens) != 1 || remote.tokens[0] != "device-token" {
		t.Fatalf("registered tokens = %v", remote.tokens)
	}
	if remote.fetched < 1 {
		t.Fatal("expected at least the startup poll")
	}
}
