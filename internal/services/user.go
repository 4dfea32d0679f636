package services

import (
	"context"
	"errors"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/repositories"
)

// UserService handles user listing and profile operations.
type UserService struct {
	reader UserReader
	writer UserWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
	}
}

// List returns all registered users.
func (svc *UserService) List(ctx context.Context) ([]models.UserDB, error) {
	users, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// Profile returns the user with the given id.
func (svc *UserService) Profile(ctx context.Context, userID int64) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}

// UpdateProfile applies the supplied profile fields only. Taking an
// already-used username or email yields ErrUserAlreadyExists.
func (svc *UserService) UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (*models.UserDB, error) {
	user, err := svc.writer.Update(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Log.Errorw("profile update conflicts with existing user", "user_id", userID)
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to update user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}
