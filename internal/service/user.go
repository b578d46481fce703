package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// Maximum lengths for profile fields.
const MaxNameLength = 100

// UserService handles profile operations for the authenticated user.
// The caller (the handler) always passes the id of the user resolved by the
// auth middleware — there is no way to address another user's profile.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Get returns the user's profile.
//
// The auth middleware has normally resolved the user already, so a miss here
// means the account was deleted between the middleware's lookup and this
// call — still handled, surfaced as NotFound.
func (s *UserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Update sets the user's first and last name and returns the updated profile.
// Both fields are required non-empty.
//
// STRATEGY: "Fetch then update"
// We read the current record first so the returned profile carries the real
// email and timestamps, then write only the name fields. If the account is
// deleted concurrently, either the read or the write reports NotFound —
// never a silent no-op.
func (s *UserService) Update(ctx context.Context, userID int64, firstName, lastName string) (*model.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if firstName == "" {
		return nil, apperror.ValidationFailed("firstName", "first name is required")
	}
	if lastName == "" {
		return nil, apperror.ValidationFailed("lastName", "last name is required")
	}
	if len(firstName) > MaxNameLength || len(lastName) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			"names must be 100 characters or less")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user profile updated", slog.Int64("userID", userID))

	return user, nil
}

// Delete removes the user's account. Owned bookmarks are removed by the
// storage layer's cascade. Returns NotFound if the account is already gone.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Int64("userID", userID))
	return nil
}
