package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPushoverEndpoint = "https://api.pushover.net/1/messages.json"

// PushoverNotifier delivers notifications through the Pushover message API.
type PushoverNotifier struct {
	Token string
	User  string

	// Endpoint overrides the API URL, primarily for tests.
	Endpoint string

	httpClient *http.Client
}

// NewPushoverNotifier constructs a notifier for the given application token
// and user key.
func NewPushoverNotifier(token, user string) *PushoverNotifier {
	return &PushoverNotifier{
		Token:      token,
		User:       user,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts a single message. Non-2xx responses are returned as errors so
// the tasks runner can log them.
func (n *PushoverNotifier) Notify(ctx context.Context, title, body string) error {
	endpoint := n.Endpoint
	if endpoint == "" {
		endpoint = defaultPushoverEndpoint
	}

	params := url.Values{}
	params.Set("token", n.Token)
	params.Set("user", n.User)
	params.Set("title", title)
	params.Set("message", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := n.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify: pushover api error: status %s, body %s", resp.Status, string(payload))
	}
	return nil
}
