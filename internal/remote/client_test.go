package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/social-battery/internal/social"
)

func TestPublishBattery(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "jwt-token")
	if err := client.PublishBattery(context.Background(), "alice@example.com", 73); err != nil {
		t.Fatalf("PublishBattery: %v", err)
	}

	if gotPath != "/connections/battery" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer jwt-token" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody["email"] != "alice@example.com" || gotBody["battery"] != float64(73) {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestSendConnectionRequest(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/connections" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	req := social.ConnectionRequest{
		ID:            "req-1",
		SenderEmail:   "alice@example.com",
		ReceiverEmail: "bob@example.com",
		Preferences:   "weekends",
		SentAt:        time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC),
		Status:        social.RequestPending,
	}
	if err := NewClient(server.URL, "").SendConnectionRequest(context.Background(), req); err != nil {
		t.Fatalf("SendConnectionRequest: %v", err)
	}

	if gotBody["id"] != "req-1" || gotBody["status"] != "pending" {
		t.Fatalf("body = %v", gotBody)
	}
	if gotBody["senderEmail"] != "alice@example.com" || gotBody["receiverEmail"] != "bob@example.com" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestFetchIncomingRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("receiverEmail"); got != "bob@example.com" {
			t.Errorf("receiverEmail = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":            "req-9",
				"senderEmail":   "alice@example.com",
				"receiverEmail": "bob@example.com",
				"preferences":   "weekends",
				"sentAt":        "2024-03-12T09:00:00Z",
				"status":        "pending",
			},
		})
	}))
	defer server.Close()

	requests, err := NewClient(server.URL, "").FetchIncomingRequests(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("FetchIncomingRequests: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}
	if requests[0].ID != "req-9" || requests[0].Status != social.RequestPending {
		t.Fatalf("request = %+v", requests[0])
	}
}

func TestRegisterNotificationTarget(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := NewClient(server.URL, "").RegisterNotificationTarget(context.Background(), "device-token", "bob@example.com"); err != nil {
		t.Fatalf("RegisterNotificationTarget: %v", err)
	}
	if gotBody["token"] != "device-token" || gotBody["email"] != "bob@example.com" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestErrorsAreReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if err := client.PublishBattery(context.Background(), "a@b.c", 10); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if _, err := client.FetchIncomingRequests(context.Background(), "a@b.c"); err == nil {
		t.Fatal("expected error for 500 response")
	}

	unconfigured := NewClient("", "")
	if err := unconfigured.PublishBattery(context.Background(), "a@b.c", 10); err == nil {
		t.Fatal("expected error when base URL is not configured")
	}
}
