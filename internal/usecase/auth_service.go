package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/moonchanyong/arom-server/config"
	mailer "github.com/moonchanyong/arom-server/internal/adapters/mail"
	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/domain"
	"github.com/moonchanyong/arom-server/internal/passphrase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

// symbols accepted by the password policy; everything outside letters,
// digits, and this set disqualifies the password.
const passwordSymbols = "`-=\\[];',./~!@#$%^&*()_+|{}:\"<>?"

const resetMailSubject = "[아롬] 임시 비밀번호 발급"

type SignupInput struct {
	Email        string   `json:"email" form:"email"`
	Password     string   `json:"pwd" form:"pwd"`
	Name         string   `json:"name" form:"name"`
	Birthday     string   `json:"birthday" form:"birthday"`
	Gender       string   `json:"gender" form:"gender"`
	Place        string   `json:"place" form:"place"`
	Space        string   `json:"space" form:"space"`
	Purpose      string   `json:"purpose" form:"purpose"`
	PreferScents []string `json:"prefer_scents" form:"prefer_scents"`
}

// SignupOptions steer the orchestrator. OAuth signups generate a password
// server-side and skip the policy check.
type SignupOptions struct {
	RandomPassword   bool
	ValidatePassword bool
	Provider         string
	ProviderID       string
}

type LoginResult struct {
	TokenPair
	UsedTmpPwd bool `json:"used_tmp_pwd,omitempty"`
}

type UpdateUserInput struct {
	Password string `json:"pwd" form:"pwd"`
	Name     string `json:"name" form:"name"`
	Birthday string `json:"birthday" form:"birthday"`
	Gender   string `json:"gender" form:"gender"`
	Picture  string `json:"picture" form:"picture"`
}

type AuthService struct {
	cfg    *config.Config
	logger pkglog.Logger
	users  mongodb.UserRepository
	tokens *JWTService
	mail   mailer.Sender
	dict   *passphrase.Dictionary
}

func NewAuthService(cfg *config.Config, logger pkglog.Logger, users mongodb.UserRepository, tokens *JWTService, mail mailer.Sender, dict *passphrase.Dictionary) *AuthService {
	return &AuthService{cfg: cfg, logger: logger, users: users, tokens: tokens, mail: mail, dict: dict}
}

// Signup validates input and creates the account. The email/provider-id
// uniqueness checks are check-then-act against the store; concurrent signups
// for the same identity can race past them (known gap, store-level unique
// indexes backstop it).
func (s *AuthService) Signup(ctx context.Context, input SignupInput, opts SignupOptions) error {
	if input.Email == "" {
		return httperr.BadRequest("Email is required")
	}
	email := strings.ToLower(input.Email)
	if !validEmail(email) {
		return httperr.Forbidden("Email is not valid")
	}

	pwd := input.Password
	if pwd == "" {
		if !opts.RandomPassword {
			return httperr.BadRequest("Password is required")
		}
		pwd = uuid.NewString()
	}
	if opts.ValidatePassword && !securePassword(pwd) {
		return httperr.BadRequest("Password is not secure one")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return httperr.Forbidden("%s already exists.", email)
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(pwd)
	if err != nil {
		return err
	}
	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Password:     hash,
		Name:         input.Name,
		Gender:       input.Gender,
		Place:        input.Place,
		Space:        input.Space,
		Purpose:      input.Purpose,
		PreferScents: input.PreferScents,
		RegDate:      time.Now(),
	}
	if input.Birthday != "" {
		birthday, err := time.Parse(time.RFC3339, input.Birthday)
		if err != nil {
			return httperr.BadRequest("Birthday is not valid")
		}
		user.Birthday = &birthday
	}
	switch opts.Provider {
	case "kakao":
		user.KakaoID = opts.ProviderID
	case "facebook":
		user.FacebookID = opts.ProviderID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return httperr.Internal("%s signup failed. Try again.", email)
	}

	s.logger.Info().Str("user_id", user.UserID).Str("email", email).Msg("signup")
	return nil
}

// Login accepts the permanent password or a still-valid temporary one and
// issues a fresh session pair, invalidating any previous session.
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*LoginResult, error) {
	email = strings.ToLower(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, httperr.Forbidden("%s is not signed up user.", email)
		}
		return nil, err
	}

	usedTmpPwd := checkPassword(user.TmpPassword, pwd)
	if !checkPassword(user.Password, pwd) && !usedTmpPwd {
		return nil, httperr.BadRequest("Password is invalid.")
	}
	if usedTmpPwd && user.HasTmpPasswordExpired(time.Now()) {
		return nil, httperr.NotAcceptable("Expired Temporary Password")
	}

	pair, err := s.issueTokens(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.UserID).Bool("tmp_pwd", usedTmpPwd).Msg("login")
	return &LoginResult{TokenPair: *pair, UsedTmpPwd: usedTmpPwd}, nil
}

// Logout clears the stored session and re-reads the record to make sure the
// write stuck; a surviving token means the session is still live.
func (s *AuthService) Logout(ctx context.Context, caller *domain.User) error {
	if err := s.users.ClearTokens(ctx, caller.UserID); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if user.AuthToken != "" || user.AccessToken != "" {
		return httperr.Internal("Token does not deleted. Try Again.")
	}
	s.logger.Info().Str("user_id", caller.UserID).Msg("logout")
	return nil
}

// Refresh rotates the session pair. The presented auth token is decoded
// ignoring expiry; the presented refresh token must byte-equal the stored
// one. The old pair is dead the moment the new one is persisted.
func (s *AuthService) Refresh(ctx context.Context, authToken, refreshToken string) (*TokenPair, error) {
	if authToken == "" || refreshToken == "" {
		return nil, httperr.Unauthorized("Token is not found.")
	}
	userID, err := s.tokens.DecodeAuthSubject(authToken)
	if err != nil {
		return nil, httperr.Unauthorized("Auth Token is invalid.")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, httperr.Unauthorized("This user does not exist.")
		}
		return nil, err
	}
	if user.RefreshToken == "" || refreshToken != user.RefreshToken {
		return nil, httperr.Unauthorized("Refresh Token is invalid.")
	}

	pair, err := s.issueTokens(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.UserID).Msg("token refreshed")
	return pair, nil
}

// ResetPassword mails a temporary password and stores its hash with an
// expiry. The mail goes out before the hash is stored so a dispatch failure
// leaves the account untouched.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	email = strings.ToLower(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return httperr.NotFound("User not found")
		}
		return err
	}

	tmpPwd := s.dict.Generate()
	body, err := mailer.RenderResetPassword(user.Name, tmpPwd)
	if err != nil {
		return err
	}
	msg := mailer.Message{
		To:       []string{user.Email},
		Subject:  resetMailSubject,
		HTMLBody: body,
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return httperr.Internal("Email Server Error: %v", err)
	}

	hash, err := hashPassword(tmpPwd)
	if err != nil {
		return err
	}
	validUntil := time.Now().Add(s.cfg.ResetExpire)
	user.TmpPassword = hash
	user.TmpPasswordValidUntil = &validUntil
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("temporary password issued")
	return nil
}

func (s *AuthService) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UserInfo returns the caller's own record, or a trimmed view of another
// user when userID is given.
func (s *AuthService) UserInfo(ctx context.Context, caller *domain.User, userID string) (map[string]interface{}, error) {
	if userID != "" {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return nil, httperr.NotFound("User does not exist.")
			}
			return nil, err
		}
		return map[string]interface{}{
			"name":    user.Name,
			"picture": user.Picture,
		}, nil
	}
	return caller.Marshal(), nil
}

// UpdateUserInfo applies the non-empty fields to the caller's own record.
func (s *AuthService) UpdateUserInfo(ctx context.Context, caller *domain.User, input UpdateUserInput) (map[string]interface{}, error) {
	if input.Password != "" {
		hash, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		caller.Password = hash
	}
	if input.Name != "" {
		caller.Name = input.Name
	}
	if input.Birthday != "" {
		birthday, err := time.Parse(time.RFC3339, input.Birthday)
		if err != nil {
			return nil, httperr.BadRequest("Birthday is not valid")
		}
		caller.Birthday = &birthday
	}
	if input.Gender != "" {
		caller.Gender = input.Gender
	}
	if input.Picture != "" {
		caller.Picture = input.Picture
	}

	if err := s.users.Update(ctx, caller); err != nil {
		return nil, err
	}
	return caller.Marshal(), nil
}

// issueTokens signs a fresh pair and persists it onto the account record.
// Issuance only counts once the write is acknowledged.
func (s *AuthService) issueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	authToken, refreshToken, expiresAt, err := s.tokens.Sign(userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateTokens(ctx, userID, authToken, refreshToken); err != nil {
		return nil, err
	}
	return &TokenPair{
		AuthToken:    authToken,
		RefreshToken: refreshToken,
		ExpTime:      expiresAt.Format(time.RFC3339),
	}, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// reject display-name forms; only the bare address is an identity key
	return addr.Address == email
}

// securePassword enforces the policy: at least 8 characters containing a
// letter, a digit, and a symbol, with nothing outside the allowed set.
func securePassword(pwd string) bool {
	if len(pwd) < 8 {
		return false
	}
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range pwd {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit && hasSymbol
}

func hashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword never errors; an absent hash simply does not match.
func checkPassword(hash, pwd string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) == nil
}
