package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"excelytics/internal/auth"
	"excelytics/internal/repositories"
	"excelytics/pkg/contracts/domain"
)

// AuthService handles account registration and login.
type AuthService struct {
	users  repositories.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// Register creates an account and returns the user with a signed access
// token. Returns ErrUserExists when the username or email is taken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	hash, err := s.tokens.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)
	return user, token, nil
}

// Login authenticates by username or email plus password. Unknown
// identifiers and wrong passwords report identically as
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.tokens.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID.String()))
	return user, token, nil
}
