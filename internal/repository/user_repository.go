package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
)

// UsersField is the users document field holding admin accounts.
const UsersField = "users"

type userRepository struct {
	users  collection
	logger zerolog.Logger
}

// NewUserRepository creates an admin user repository for the given document.
func NewUserRepository(store docstore.Store, docID string, logger zerolog.Logger) UserRepository {
	logger = logger.With().Str("repository", "user").Logger()
	return &userRepository{
		users:  collection{store: store, docID: docID, field: UsersField, logger: logger},
		logger: logger,
	}
}

func (r *userRepository) List(ctx context.Context) ([]model.AdminUser, error) {
	raw, err := r.users.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.AdminUser](raw, r.logger), nil
}

func (r *userRepository) Create(ctx context.Context, input model.AdminUserInput) (*model.AdminUser, error) {
	user := model.AdminUser{
		ID:       model.NewUserID(timeNow()),
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}

	raw, err := docstore.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	_, err = r.users.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		for _, existing := range decodeAll[model.AdminUser](items, r.logger) {
			if strings.EqualFold(existing.Username, user.Username) {
				return nil, false, model.ErrUsernameTaken
			}
		}
		return append(items, raw), true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin user created")
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch model.AdminUserPatch) (bool, error) {
	return r.users.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		return updateID(items, id, patch, false)
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.users.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		next, removed := removeID(items, id)
		return next, removed, nil
	})
}
