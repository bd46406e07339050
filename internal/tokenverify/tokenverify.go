// Package tokenverify answers "who does this auth token belong to" for
// sibling services. It applies the same rules as the HTTP middleware: valid
// signature, not expired, and byte-equal to the session stored on the
// account.
package tokenverify

import (
	"context"
	"errors"

	"github.com/moonchanyong/arom-server/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrTokenExpired = errors.New("token_expired")
	ErrUserNotFound = errors.New("user_not_found")
	ErrStaleToken   = errors.New("stale_token")
)

// Validator validates an auth token and returns its subject.
type Validator interface {
	ValidateAuth(token string) (string, error)
}

// UserLookup resolves an account by id.
type UserLookup interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenErrors maps the validator's failure modes onto this package's
// sentinels so callers do not import the token service.
type TokenErrors struct {
	Expired error
	Invalid error
}

type Result struct {
	UserID string
	Email  string
}

func Verify(ctx context.Context, validator Validator, users UserLookup, token string, tokenErrs TokenErrors) (*Result, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	userID, err := validator.ValidateAuth(token)
	if err != nil {
		if tokenErrs.Expired != nil && errors.Is(err, tokenErrs.Expired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.AuthToken == "" || user.AuthToken != token {
		return nil, ErrStaleToken
	}
	return &Result{UserID: user.UserID, Email: user.Email}, nil
}
