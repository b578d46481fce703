package service

import (
	"context"
	"time"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
)

// In-memory fakes for the repository interfaces, shared by the service
// tests in this package. Using hand-written fakes (not a mock framework)
// keeps the tests dependency-free and easy to read — the fakes implement
// the same error contract as the sqlite repositories: Conflict for a
// duplicate email, NotFound for missing rows and foreign-key misses.

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperror.Conflict("email " + user.Email + " is already registered")
		}
	}
	user.ID = f.nextID
	f.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

type fakeBookmarkRepo struct {
	bookmarks map[int64]*model.Bookmark
	// owners that exist, for the foreign-key check on Create
	knownUsers map[int64]bool
	nextID     int64
	createErr  error
	listErr    error
}

func newFakeBookmarkRepo(ownerIDs ...int64) *fakeBookmarkRepo {
	known := make(map[int64]bool)
	for _, id := range ownerIDs {
		known[id] = true
	}
	return &fakeBookmarkRepo{
		bookmarks:  make(map[int64]*model.Bookmark),
		knownUsers: known,
		nextID:     1,
	}
}

func (f *fakeBookmarkRepo) Create(ctx context.Context, bookmark *model.Bookmark) error {
	if f.createErr != nil {
		return f.createErr
	}
	if !f.knownUsers[bookmark.UserID] {
		return apperror.NotFound("user", bookmark.UserID)
	}
	bookmark.ID = f.nextID
	f.nextID++
	now := time.Now()
	bookmark.CreatedAt = now
	bookmark.UpdatedAt = now
	copied := *bookmark
	f.bookmarks[bookmark.ID] = &copied
	return nil
}

func (f *fakeBookmarkRepo) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	b, ok := f.bookmarks[id]
	if !ok {
		return nil, apperror.NotFound("bookmark", id)
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookmarkRepo) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []model.Bookmark{}
	// Iterate in id order to mirror the sqlite ORDER BY id.
	for id := int64(1); id < f.nextID; id++ {
		if b, ok := f.bookmarks[id]; ok && b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeBookmarkRepo) Update(ctx context.Context, bookmark *model.Bookmark) error {
	stored, ok := f.bookmarks[bookmark.ID]
	if !ok {
		return apperror.NotFound("bookmark", bookmark.ID)
	}
	stored.Title = bookmark.Title
	stored.Link = bookmark.Link
	stored.Description = bookmark.Description
	stored.UpdatedAt = time.Now()
	bookmark.UpdatedAt = stored.UpdatedAt
	return nil
}

func (f *fakeBookmarkRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.bookmarks[id]; !ok {
		return apperror.NotFound("bookmark", id)
	}
	delete(f.bookmarks, id)
	return nil
}
