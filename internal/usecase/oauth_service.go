package usecase

import (
	"context"
	"errors"

	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/adapters/oauth"
	"github.com/moonchanyong/arom-server/pkg/httperr"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

// IdentityVerifier is a provider-side token introspector. Login and signup
// may hit different provider endpoints (Kakao does).
type IdentityVerifier interface {
	Name() string
	VerifyLogin(ctx context.Context, token string) (*oauth.Identity, error)
	VerifySignup(ctx context.Context, token string) (*oauth.Identity, error)
}

type OAuthService struct {
	logger pkglog.Logger
	users  mongodb.UserRepository
	auth   *AuthService
}

func NewOAuthService(logger pkglog.Logger, users mongodb.UserRepository, auth *AuthService) *OAuthService {
	return &OAuthService{logger: logger, users: users, auth: auth}
}

// Login exchanges a provider token for a local session pair.
func (s *OAuthService) Login(ctx context.Context, verifier IdentityVerifier, token string) (*TokenPair, error) {
	identity, err := s.verify(ctx, verifier, token, true)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByProviderID(ctx, verifier.Name(), identity.ID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, httperr.NotFound("User Not Found")
		}
		return nil, err
	}

	pair, err := s.auth.issueTokens(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.UserID).Str("provider", verifier.Name()).Msg("oauth login")
	return pair, nil
}

// Signup creates a local account bound to the external identity. The
// password is generated server-side and never returned.
func (s *OAuthService) Signup(ctx context.Context, verifier IdentityVerifier, token string, input SignupInput) error {
	identity, err := s.verify(ctx, verifier, token, false)
	if err != nil {
		return err
	}

	if _, err := s.users.FindByProviderID(ctx, verifier.Name(), identity.ID); err == nil {
		return httperr.Forbidden("Already existing %s user", verifier.Name())
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return err
	}

	return s.auth.Signup(ctx, input, SignupOptions{
		RandomPassword:   true,
		ValidatePassword: false,
		Provider:         verifier.Name(),
		ProviderID:       identity.ID,
	})
}

func (s *OAuthService) verify(ctx context.Context, verifier IdentityVerifier, token string, login bool) (*oauth.Identity, error) {
	var identity *oauth.Identity
	var err error
	if login {
		identity, err = verifier.VerifyLogin(ctx, token)
	} else {
		identity, err = verifier.VerifySignup(ctx, token)
	}
	if err != nil {
		var rejected *oauth.RejectedError
		if errors.As(err, &rejected) {
			return nil, httperr.Forbidden("Authorization Failed")
		}
		return nil, err
	}
	return identity, nil
}
