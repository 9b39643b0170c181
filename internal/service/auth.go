package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

// AuthService handles account registration and credential verification.
// Token issuing stays in the handler (it's a cookie concern); this service
// only decides whether the credentials are good.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// SignUp registers a new account. ValidationError for a blank username or
// short password; Conflict (from the store's UNIQUE constraint) for a
// taken username.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if strings.ContainsAny(username, " /") {
		// Usernames appear in /profile/{username}/ URLs.
		return nil, apperror.ValidationFailed("username", "username may not contain spaces or slashes")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is too long")
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", username),
	)

	return user, nil
}

// Login verifies credentials and returns the account.
//
// An unknown username and a wrong password produce the SAME validation
// error, so the login form can't be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	invalid := apperror.ValidationFailed("password", "invalid username or password")

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, invalid
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, invalid
	}

	s.logger.Info("user logged in", slog.String("id", user.ID))
	return user, nil
}
