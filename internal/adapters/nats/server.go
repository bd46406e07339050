package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	nats "github.com/nats-io/nats.go"

	"github.com/moonchanyong/arom-server/internal/tokenverify"
	"github.com/moonchanyong/arom-server/internal/usecase"
)

// VerifyHandler lets sibling services check session tokens over NATS without
// sharing the signing secret.
type VerifyHandler struct {
	validator tokenverify.Validator
	users     tokenverify.UserLookup
	respondFn func(msg *nats.Msg, resp verifyResponse)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	OK     bool   `json:"ok"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewVerifyHandler(validator tokenverify.Validator, users tokenverify.UserLookup) *VerifyHandler {
	return &VerifyHandler{validator: validator, users: users, respondFn: respond}
}

func (h *VerifyHandler) Subscribe(conn *nats.Conn, subject, queue string) error {
	if conn == nil {
		return errors.New("nats connection is nil")
	}
	_, err := conn.QueueSubscribe(subject, queue, h.handle)
	return err
}

func (h *VerifyHandler) handle(msg *nats.Msg) {
	var req verifyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.respondFn(msg, verifyResponse{OK: false, Error: "invalid_payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tokenErrs := tokenverify.TokenErrors{
		Expired: usecase.ErrTokenExpired,
		Invalid: usecase.ErrTokenInvalid,
	}
	result, err := tokenverify.Verify(ctx, h.validator, h.users, req.Token, tokenErrs)
	if err != nil {
		h.respondFn(msg, verifyResponse{OK: false, Error: err.Error()})
		return
	}
	h.respondFn(msg, verifyResponse{OK: true, UserID: result.UserID, Email: result.Email})
}

func respond(msg *nats.Msg, resp verifyResponse) {
	data, _ := json.Marshal(resp)
	_ = msg.Respond(data)
}
