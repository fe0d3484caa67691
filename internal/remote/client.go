// Package remote implements the HTTP client for the connections backend.
// The concrete transport and authentication scheme live behind this
// boundary; callers treat every call as one-shot and best effort.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/example/social-battery/internal/social"
)

// Client talks to the deployed connections API.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient constructs a client for the API rooted at baseURL. When
// authToken is non-empty it is sent as a bearer token.
func NewClient(baseURL, authToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type requestPayload struct {
	ID            string    `json:"id"`
	SenderEmail   string    `json:"senderEmail"`
	ReceiverEmail string    `json:"receiverEmail"`
	Preferences   string    `json:"preferences,omitempty"`
	SentAt        time.Time `json:"sentAt"`
	Status        string    `json:"status"`
}

// PublishBattery uploads the battery percentage computed for an identity.
func (c *Client) PublishBattery(ctx context.Context, email string, percent int) error {
	payload := struct {
		Email   string `json:"email"`
		Battery int    `json:"battery"`
	}{Email: email, Battery: percent}
	return c.post(ctx, "/connections/battery", payload)
}

// SendConnectionRequest delivers a pending request to the backend.
func (c *Client) SendConnectionRequest(ctx context.Context, req social.ConnectionRequest) error {
	return c.post(ctx, "/connections", requestPayload{
		ID:            req.ID,
		SenderEmail:   req.SenderEmail,
		ReceiverEmail: req.ReceiverEmail,
		Preferences:   req.Preferences,
		SentAt:        req.SentAt,
		Status:        string(req.Status),
	})
}

// FetchIncomingRequests polls the backend for requests addressed to email.
func (c *Client) FetchIncomingRequests(ctx context.Context, email string) ([]social.ConnectionRequest, error) {
	endpoint, err := c.endpoint("/connections")
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("receiverEmail", email)
	endpoint += "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("remote: fetch incoming requests: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote: fetch incoming requests: unexpected status %s", resp.Status)
	}

	var payloads []requestPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("remote: decode incoming requests: %w", err)
	}

	requests := make([]social.ConnectionRequest, 0, len(payloads))
	for _, p := range payloads {
		requests = append(requests, social.ConnectionRequest{
			ID:            p.ID,
			SenderEmail:   p.SenderEmail,
			ReceiverEmail: p.ReceiverEmail,
			Preferences:   p.Preferences,
			SentAt:        p.SentAt,
			Status:        social.RequestStatus(p.Status),
		})
	}
	return requests, nil
}

// RegisterNotificationTarget associates a device token with an identity so
// the backend can deliver pushes. Email may be empty for anonymous tokens.
func (c *Client) RegisterNotificationTarget(ctx context.Context, token, email string) error {
	payload := struct {
		Token string `json:"token"`
		Email string `json:"email,omitempty"`
	}{Token: token, Email: email}
	return c.post(ctx, "/devices", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("remote: encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("remote: post %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote: post %s: unexpected status %s", path, resp.Status)
	}
	return nil
}

func (c *Client) endpoint(path string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("remote: base URL not configured")
	}
	return c.baseURL + path, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}
