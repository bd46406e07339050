package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKakaoVerifyLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/access_token_info" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer provider-token" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1234567890}`))
	}))
	defer server.Close()

	client := NewKakaoClient(server.URL)
	identity, err := client.VerifyLogin(context.Background(), "provider-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.ID != "1234567890" {
		t.Fatalf("unexpected id: %s", identity.ID)
	}
}

func TestKakaoVerifyLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code": -401, "msg": "this access token does not exist"}`))
	}))
	defer server.Close()

	client := NewKakaoClient(server.URL)
	_, err := client.VerifyLogin(context.Background(), "dead-token")

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Provider != "kakao" {
		t.Fatalf("unexpected provider: %s", rejected.Provider)
	}
}

func TestKakaoVerifySignupReturnsProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/me" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 1234567890,
			"properties": {"nickname": "nick", "profile_image": "p.png", "thumbnail_image": "t.png"}
		}`))
	}))
	defer server.Close()

	client := NewKakaoClient(server.URL)
	identity, err := client.VerifySignup(context.Background(), "provider-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.Nickname != "nick" || identity.ProfileImage != "p.png" {
		t.Fatalf("profile not mapped: %+v", identity)
	}
}
