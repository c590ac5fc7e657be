package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*RelayClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewRelayClient(srv.URL, "test-key", 2*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("create relay client: %v", err)
	}
	return client, srv
}

func TestSendSuccess(t *testing.T) {
	var received Message
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	})

	msg := Message{
		From:    "no-reply@plateful.local",
		To:      "friend@example.com",
		Subject: "Anna recommends Borsch",
		Body:    "Check out this recipe",
	}
	if err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if received.To != msg.To || received.Subject != msg.Subject {
		t.Fatalf("relay received %+v, want %+v", received, msg)
	}
}

func TestSendRejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := client.Send(context.Background(), Message{To: "bad"})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestSendUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.Send(context.Background(), Message{To: "friend@example.com"})
	if err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSendContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := client.Send(ctx, Message{To: "friend@example.com"}); err == nil {
		t.Fatalf("expected context error")
	}
}
