package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resto-catalog/internal/auth"
	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
)

type userService struct {
	userRepo       repository.UserRepository
	hashPasswords  bool
	hashPasswordFn func(string) (string, error)
	logger         zerolog.Logger
}

// NewUserService creates a new admin user service. With hashPasswords set,
// new and changed passwords are stored as bcrypt hashes.
func NewUserService(userRepo repository.UserRepository, hashPasswords bool, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:       userRepo,
		hashPasswords:  hashPasswords,
		hashPasswordFn: auth.HashPassword,
		logger:         logger.With().Str("service", "user").Logger(),
	}
}

func (s *userService) List(ctx context.Context) ([]model.AdminUserView, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]model.AdminUserView, len(users))
	for i, u := range users {
		views[i] = u.View()
	}
	return views, nil
}

func (s *userService) storedPassword(password string) (string, error) {
	if !s.hashPasswords {
		return password, nil
	}
	return s.hashPasswordFn(password)
}

func (s *userService) Create(ctx context.Context, input model.AdminUserInput) (*model.AdminUserView, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	switch {
	case input.Username == "":
		return nil, model.RequiredField("username")
	case input.Password == "":
		return nil, model.RequiredField("password")
	case input.Name == "":
		input.Name = input.Username
	}

	stored, err := s.storedPassword(input.Password)
	if err != nil {
		return nil, err
	}
	input.Password = stored

	user, err := s.userRepo.Create(ctx, input)
	if err != nil {
		var de *model.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	view := user.View()
	return &view, nil
}

func (s *userService) Update(ctx context.Context, id string, patch model.AdminUserPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, model.ErrNothingToUpdate
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return false, model.RequiredField("password")
		}
		stored, err := s.storedPassword(*patch.Password)
		if err != nil {
			return false, err
		}
		patch.Password = &stored
	}

	found, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return found, nil
}

func (s *userService) Delete(ctx context.Context, id string) (bool, error) {
	found, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return found, nil
}
