package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenPair is the session pair handed to clients. ExpTime is the auth
// token's expiry in RFC 3339 UTC.
type TokenPair struct {
	AuthToken    string `json:"auth_token"`
	RefreshToken string `json:"refresh_token"`
	ExpTime      string `json:"exp_time"`
}

// JWTService signs and validates the session pair. The auth token carries an
// expiry and is signed HS512; the refresh token has no expiry claim and is
// signed HS256, matching clients that predate the rotation scheme.
type JWTService struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTService(secret string, accessTTL time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), accessTTL: accessTTL}
}

// Sign produces a fresh pair for the subject. Persisting the pair onto the
// account record is the caller's job; issuance is not complete without it.
func (s *JWTService) Sign(userID string) (authToken, refreshToken string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(s.accessTTL)

	auth := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})
	authToken, err = auth.SignedString(s.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
	})
	refreshToken, err = refresh.SignedString(s.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return authToken, refreshToken, expiresAt, nil
}

// ValidateAuth returns the subject of a live auth token. Expiry maps to
// ErrTokenExpired; every other decode failure collapses to ErrTokenInvalid so
// callers cannot probe the reason.
func (s *JWTService) ValidateAuth(token string) (string, error) {
	return s.parseAuth(token, false)
}

// DecodeAuthSubject recovers the subject from an auth token without checking
// expiry. Used by the refresh flow, where the token is expected to be stale
// but must still carry a valid signature.
func (s *JWTService) DecodeAuthSubject(token string) (string, error) {
	return s.parseAuth(token, true)
}

func (s *JWTService) parseAuth(token string, ignoreExpiry bool) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()})}
	if ignoreExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if !ignoreExpiry && errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
