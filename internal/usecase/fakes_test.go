package usecase

import (
	"context"
	"strings"
	"sync"

	mailer "github.com/moonchanyong/arom-server/internal/adapters/mail"
	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/domain"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	failClearTokens bool
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		repo.users[u.UserID] = cloneUser(u)
	}
	return repo
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	if u.Devices != nil {
		clone.Devices = make(map[string]string, len(u.Devices))
		for k, v := range u.Devices {
			clone.Devices[k] = v
		}
	}
	return &clone
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return cloneUser(u), nil
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeUserRepo) FindByProviderID(_ context.Context, provider, providerID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		switch provider {
		case "kakao":
			if u.KakaoID != "" && u.KakaoID == providerID {
				return cloneUser(u), nil
			}
		case "facebook":
			if u.FacebookID != "" && u.FacebookID == providerID {
				return cloneUser(u), nil
			}
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; !ok {
		return mongodb.ErrNotFound
	}
	r.users[user.UserID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) UpdateTokens(_ context.Context, userID, authToken, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongodb.ErrNotFound
	}
	u.AuthToken = authToken
	u.RefreshToken = refreshToken
	return nil
}

func (r *fakeUserRepo) ClearTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongodb.ErrNotFound
	}
	if r.failClearTokens {
		return nil
	}
	u.AuthToken = ""
	u.AccessToken = ""
	return nil
}

func (r *fakeUserRepo) AddDevice(_ context.Context, userID, deviceID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongodb.ErrNotFound
	}
	if u.Devices == nil {
		u.Devices = map[string]string{}
	}
	u.Devices[deviceID] = name
	return nil
}

func (r *fakeUserRepo) RemoveDevice(_ context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongodb.ErrNotFound
	}
	delete(u.Devices, deviceID)
	return nil
}

func (r *fakeUserRepo) stored(userID string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return cloneUser(u)
	}
	return nil
}

type fakeMailSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	err      error
}

func (s *fakeMailSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeMailSender) sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.messages...)
}
