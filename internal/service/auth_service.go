package service

import (
	"context"
	"errors"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
	"github.com/clinicore/clinicore/internal/session"
)

// ErrInvalidCredentials is returned when email or password do not match
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles sign-in and sign-out
type AuthService struct {
	users    *repository.UserRepository
	tokens   *auth.TokenService
	sessions session.Store
	log      *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *repository.UserRepository, tokens *auth.TokenService, sessions session.Store, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		log:      log.WithComponent("auth"),
	}
}

// Login verifies the credentials and returns a signed access token.
// Lookup misses and password mismatches both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user, auth.DefaultScheme)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout destroys the caller's session, which also clears the sign-in
// audit marker so the next session audits afresh
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sid)
}
