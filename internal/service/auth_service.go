package service

import (
	"context"
	"fmt"
	"strings"

	"resto-catalog/internal/auth"
	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
)

type authService struct {
	userRepo  repository.UserRepository
	authority *auth.Authority
	logger    zerolog.Logger
}

// NewAuthService creates the login service.
func NewAuthService(userRepo repository.UserRepository, authority *auth.Authority, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		authority: authority,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Login scans the admin users for a matching username and password.
func (s *authService) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load admin users")
		return nil, fmt.Errorf("failed to load admin users: %w", err)
	}
	if len(users) == 0 {
		s.logger.Warn().Msg("login attempted but no admin users are registered")
		return nil, model.ErrNoUsers
	}

	for _, u := range users {
		if u.Username != username || !auth.CheckPassword(u.Password, password) {
			continue
		}

		token, session, err := s.authority.Issue(u.ID, u.Name, u.Email)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", u.ID).Msg("failed to issue session token")
			return nil, err
		}

		s.logger.Info().Str("user_id", u.ID).Msg("admin logged in")
		return &model.LoginResult{
			Token:     token,
			User:      u.View(),
			LoginTime: session.LoginTime,
			ExpiresAt: session.ExpiresAt,
		}, nil
	}

	s.logger.Warn().Str("username", username).Msg("invalid login attempt")
	return nil, model.ErrInvalidCredentials
}
