package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	v := NewVerifier("secret")

	token, err := v.Issue(Identity{UserID: "user-1", Staff: true}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	id, err := v.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if id.UserID != "user-1" {
		t.Fatalf("UserID = %s, want user-1", id.UserID)
	}
	if !id.Staff {
		t.Fatalf("Staff = false, want true")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewVerifier("one").Issue(Identity{UserID: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := NewVerifier("two").Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	v := NewVerifier("secret")
	token, err := v.Issue(Identity{UserID: "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := v.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsMissingSubject(t *testing.T) {
	v := NewVerifier("secret")
	token, err := v.Issue(Identity{}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := v.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	v := NewVerifier("secret")
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := v.Parse(token); err != ErrInvalidToken {
			t.Fatalf("Parse(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier("secret")

	var got Identity
	var present bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, present = FromContext(r.Context())
	})
	handler := v.Middleware(next)

	// Valid token resolves an identity.
	token, _ := v.Issue(Identity{UserID: "user-9"}, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !present || got.UserID != "user-9" {
		t.Fatalf("identity not resolved: present=%v got=%+v", present, got)
	}

	// No header passes through anonymously.
	present = false
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if present {
		t.Fatalf("expected anonymous request without header")
	}

	// A bad token does not resolve an identity.
	present = false
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if present {
		t.Fatalf("expected anonymous request for invalid token")
	}
}
