package natsadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	nats "github.com/nats-io/nats.go"

	"github.com/moonchanyong/arom-server/internal/domain"
	"github.com/moonchanyong/arom-server/internal/usecase"
)

type stubLookup struct {
	user *domain.User
}

func (s stubLookup) FindByID(_ context.Context, userID string) (*domain.User, error) {
	if s.user != nil && s.user.UserID == userID {
		return s.user, nil
	}
	return nil, nats.ErrNoResponders
}

func captureHandler(validator *usecase.JWTService, users stubLookup) (*VerifyHandler, *verifyResponse) {
	handler := NewVerifyHandler(validator, users)
	captured := &verifyResponse{}
	handler.respondFn = func(_ *nats.Msg, resp verifyResponse) { *captured = resp }
	return handler, captured
}

func TestVerifyHandlerLiveSession(t *testing.T) {
	tokens := usecase.NewJWTService("secret", time.Hour)
	authToken, _, _, err := tokens.Sign("u1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	users := stubLookup{user: &domain.User{UserID: "u1", Email: "a@b.com", AuthToken: authToken}}
	handler, captured := captureHandler(tokens, users)

	payload, _ := json.Marshal(verifyRequest{Token: authToken})
	handler.handle(&nats.Msg{Data: payload})

	if !captured.OK || captured.UserID != "u1" || captured.Email != "a@b.com" {
		t.Fatalf("unexpected response: %+v", captured)
	}
}

func TestVerifyHandlerExpiredToken(t *testing.T) {
	tokens := usecase.NewJWTService("secret", -time.Minute)
	authToken, _, _, err := tokens.Sign("u1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	handler, captured := captureHandler(tokens, stubLookup{})

	payload, _ := json.Marshal(verifyRequest{Token: authToken})
	handler.handle(&nats.Msg{Data: payload})

	if captured.OK || captured.Error != "token_expired" {
		t.Fatalf("expected token_expired, got %+v", captured)
	}
}

func TestVerifyHandlerInvalidToken(t *testing.T) {
	handler, captured := captureHandler(usecase.NewJWTService("secret", time.Hour), stubLookup{})

	payload, _ := json.Marshal(verifyRequest{Token: "garbage"})
	handler.handle(&nats.Msg{Data: payload})

	if captured.OK || captured.Error != "invalid_token" {
		t.Fatalf("expected invalid_token, got %+v", captured)
	}
}

func TestVerifyHandlerStaleToken(t *testing.T) {
	tokens := usecase.NewJWTService("secret", time.Hour)
	authToken, _, _, err := tokens.Sign("u1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	users := stubLookup{user: &domain.User{UserID: "u1", AuthToken: "another-session"}}
	handler, captured := captureHandler(tokens, users)

	payload, _ := json.Marshal(verifyRequest{Token: authToken})
	handler.handle(&nats.Msg{Data: payload})

	if captured.OK || captured.Error != "stale_token" {
		t.Fatalf("expected stale_token, got %+v", captured)
	}
}

func TestVerifyHandlerBadPayload(t *testing.T) {
	handler, captured := captureHandler(usecase.NewJWTService("secret", time.Hour), stubLookup{})

	handler.handle(&nats.Msg{Data: []byte("{not json")})

	if captured.OK || captured.Error != "invalid_payload" {
		t.Fatalf("expected invalid_payload, got %+v", captured)
	}
}
