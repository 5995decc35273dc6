package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"vacanza-be/internal/auth"
	"vacanza-be/internal/models"
	"vacanza-be/internal/storage"
)

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users  storage.UserStore
	tokens *auth.JWTManager
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users storage.UserStore, tokens *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates a new user account and returns it with a token pair.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, *auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return nil, nil, fmt.Errorf("email and name are required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailInUse
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "email", email)

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and returns the user with a token pair.
// Unknown email and wrong password both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	// The account may have been deleted since the token was issued.
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return s.tokens.GenerateTokenPair(user.ID, user.Email)
}

// GetUser retrieves a user profile by ID.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// SearchUsers finds users by name or email fragment, for inviting into
// groups.
func (s *AuthService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return s.users.SearchUsers(ctx, query, limit)
}
