// Package worker polls the remote collaborator for connection requests
// addressed to the local identity and feeds them into the store. Polling is
// the fallback delivery path when pushes are unavailable; the store
// deduplicates, so re-delivering a batch is harmless.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/social-battery/internal/social"
)

const defaultPollInterval = 5 * time.Minute

// Worker drives the periodic fetch loop.
type Worker struct {
	store       *social.Store
	remote      social.RemoteClient
	identity    string
	deviceToken string
	interval    time.Duration
	refresh     chan struct{}
	logger      *slog.Logger
}

// New constructs a worker polling on behalf of identity. A non-positive
// interval falls back to the default.
func New(store *social.Store, remote social.RemoteClient, identity string, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:    store,
		remote:   remote,
		identity: identity,
		interval: interval,
		refresh:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// SetDeviceToken configures the notification target registered at startup.
func (w *Worker) SetDeviceToken(token string) {
	w.deviceToken = token
}

// Refresh signals the worker to poll immediately.
func (w *Worker) Refresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
		// A poll is already pending.
	}
}

// Run polls until ctx is cancelled. It registers the notification target
// once at startup (best effort) and then alternates between timer ticks and
// refresh signals.
func (w *Worker) Run(ctx context.Context) {
	w.logger.InfoContext(ctx, "worker started", "identity", w.identity, "interval", w.interval)

	if w.deviceToken != "" && w.remote != nil {
		if err := w.remote.RegisterNotificationTarget(ctx, w.deviceToken, w.identity); err != nil {
			w.logger.ErrorContext(ctx, "failed to register notification target", "error", err)
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "worker stopped")
			return
		case <-w.refresh:
			w.pollOnce(ctx)
		case <-ticker.C:
			w.pollOnce(ctx)
		}
	}
}

// pollOnce fetches pending requests for the identity and delivers them to
// the store. Fetch failures are logged and the loop carries on.
func (w *Worker) pollOnce(ctx context.Context) {
	if w.remote == nil || w.identity == "" {
		return
	}
	requests, err := w.remote.FetchIncomingRequests(ctx, w.identity)
	if err != nil {
		w.logger.ErrorContext(ctx, "failed to fetch incoming requests", "error", err)
		return
	}
	for _, req := range requests {
		w.store.ReceiveConnectionRequest(ctx, req)
	}
	if len(requests) > 0 {
		w.logger.InfoContext(ctx, "delivered incoming requests", "count", len(requests))
	}
}
