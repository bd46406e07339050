package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFacebookServer(t *testing.T, debugBody string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/oauth/access_token":
			if r.URL.Query().Get("grant_type") != "client_credentials" {
				t.Fatalf("unexpected grant_type: %s", r.URL.Query().Get("grant_type"))
			}
			_, _ = fmt.Fprint(w, `{"access_token": "app|token"}`)
		case "/debug_token/":
			if r.URL.Query().Get("access_token") != "app|token" {
				t.Fatalf("app token not forwarded: %s", r.URL.RawQuery)
			}
			_, _ = fmt.Fprint(w, debugBody)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
}

func TestFacebookVerifyLogin(t *testing.T) {
	server := newFacebookServer(t, `{"data": {"is_valid": true, "app_id": 111, "user_id": 4242}}`)
	defer server.Close()

	client := NewFacebookClient(server.URL, "111", "secret")
	identity, err := client.VerifyLogin(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.ID != "4242" {
		t.Fatalf("unexpected id: %s", identity.ID)
	}
}

func TestFacebookRejectsInvalidToken(t *testing.T) {
	server := newFacebookServer(t, `{"data": {"is_valid": false, "app_id": 111}}`)
	defer server.Close()

	client := NewFacebookClient(server.URL, "111", "secret")
	_, err := client.VerifyLogin(context.Background(), "dead-token")

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
}

func TestFacebookRejectsForeignApp(t *testing.T) {
	server := newFacebookServer(t, `{"data": {"is_valid": true, "app_id": 999, "user_id": 4242}}`)
	defer server.Close()

	client := NewFacebookClient(server.URL, "111", "secret")
	_, err := client.VerifyLogin(context.Background(), "user-token")

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
}

func TestFacebookRejectsErrorResponse(t *testing.T) {
	server := newFacebookServer(t, `{"error": {"message": "bad signature"}}`)
	defer server.Close()

	client := NewFacebookClient(server.URL, "111", "secret")
	_, err := client.VerifyLogin(context.Background(), "user-token")

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Reason != "bad signature" {
		t.Fatalf("unexpected reason: %s", rejected.Reason)
	}
}
