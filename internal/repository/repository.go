package repository

import (
	"context"

	"github.com/sakif/bookmarks/internal/model"
)

type UserRepository interface {
	// Create inserts a new user and fills in ID and timestamps.
	// Returns apperror.ErrConflict if the email is already taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update persists FirstName/LastName and refreshes UpdatedAt.
	// Returns apperror.ErrNotFound if the user no longer exists.
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

type BookmarkRepository interface {
	// Create inserts a new bookmark and fills in ID and timestamps.
	// Returns apperror.ErrNotFound if the owning user no longer exists.
	Create(ctx context.Context, bookmark *model.Bookmark) error
	GetByID(ctx context.Context, id int64) (*model.Bookmark, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error)
	Update(ctx context.Context, bookmark *model.Bookmark) error
	Delete(ctx context.Context, id int64) error
}
