package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openpost-dev/openpost/pkg/api"
	"github.com/openpost-dev/openpost/pkg/auth"
	"github.com/openpost-dev/openpost/pkg/auth/password"
	"github.com/openpost-dev/openpost/pkg/auth/token"
	"github.com/openpost-dev/openpost/pkg/observability"
	"github.com/openpost-dev/openpost/pkg/storage"
)

// UserService handles registration and login. Login mints a credential
// via the token codec; no session state is kept server-side.
type UserService struct {
	users   storage.UserStore
	codec   *token.Codec
	limiter auth.RateLimiter
}

// NewUserService constructs a UserService. limiter may be nil to
// disable login throttling.
func NewUserService(users storage.UserStore, codec *token.Codec, limiter auth.RateLimiter) *UserService {
	return &UserService{users: users, codec: codec, limiter: limiter}
}

// Join registers a new account. The store's unique-name constraint
// enforces duplicate rejection atomically; a conflict surfaces as
// duplicate_name regardless of the submitted password.
func (s *UserService) Join(ctx context.Context, name, rawPassword string) (*storage.User, error) {
	hash, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &storage.User{
		ID:           uuid.NewString(),
		UserName:     name,
		PasswordHash: hash,
		RegisteredAt: time.Now(),
	}

	if err := s.users.SaveUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, api.NewDuplicateNameError(name)
		}
		return nil, fmt.Errorf("saving user: %w", err)
	}

	slog.Info("user registered", "user_name", name)
	return u, nil
}

// Login verifies the submitted password against the stored hash and
// returns a freshly issued token. Lookup miss and password mismatch are
// distinct outcomes; neither issues a token.
func (s *UserService) Login(ctx context.Context, name, rawPassword string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, name); err != nil {
			observability.LoginsTotal.WithLabelValues("throttled").Inc()
			return "", api.NewTooManyRequestsError("too many login attempts")
		}
	}

	u, err := s.users.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			observability.LoginsTotal.WithLabelValues("failure").Inc()
			return "", api.NewUnknownSubjectError(name)
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if !password.Verify(u.PasswordHash, rawPassword) {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return "", api.NewInvalidPasswordError()
	}

	tok, err := s.codec.Issue(name)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	slog.Info("user logged in", "user_name", name)
	return tok, nil
}

// FindUserByName resolves a principal name to its account. It satisfies
// the token authenticator's subject resolver, which calls it on every
// protected request.
func (s *UserService) FindUserByName(ctx context.Context, name string) (*storage.User, error) {
	return s.users.FindUserByName(ctx, name)
}
