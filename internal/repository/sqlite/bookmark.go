package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// BookmarkDB persists bookmarks in the bookmarks table. Obtain one from
// DB.Bookmarks.
type BookmarkDB struct {
	conn *sql.DB
}

// compile-time check that *BookmarkDB implements repository.BookmarkRepository
var _ repository.BookmarkRepository = (*BookmarkDB)(nil)

// Create inserts a new bookmark and fills in the generated ID and timestamps.
//
// The user_id column references users(id), so inserting a bookmark for an
// account that was deleted mid-request trips the foreign-key constraint.
// We translate that driver code to NotFound — from the caller's point of
// view the owning user is simply gone, and no partial row is left behind.
func (s *BookmarkDB) Create(ctx context.Context, bookmark *model.Bookmark) error {
	now := time.Now().UTC()
	bookmark.CreatedAt = now
	bookmark.UpdatedAt = now

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, title, link, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		bookmark.UserID,
		bookmark.Title,
		bookmark.Link,
		bookmark.Description,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)
	if err != nil {
		if isConstraintErr(err, codeForeignKeyViolation) {
			return apperror.NotFound("user", bookmark.UserID)
		}
		return fmt.Errorf("sqlite: inserting bookmark for user %d: %w", bookmark.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted bookmark id: %w", err)
	}
	bookmark.ID = id

	return nil
}

// GetByID retrieves a single bookmark by primary key.
// Returns apperror.ErrNotFound if no bookmark exists with that id.
// Ownership is NOT checked here — that's the service layer's job.
func (s *BookmarkDB) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	var b model.Bookmark

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, link, description, created_at, updated_at
		 FROM bookmarks WHERE id = ?`,
		id,
	).Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.Link,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("bookmark", id)
		}
		return nil, fmt.Errorf("sqlite: getting bookmark %d: %w", id, err)
	}

	return &b, nil
}

// ListByUser returns all bookmarks owned by the given user, oldest first.
// An account with no bookmarks gets an empty slice, not nil, so the JSON
// response is [] rather than null.
func (s *BookmarkDB) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, title, link, description, created_at, updated_at
		 FROM bookmarks
		 WHERE user_id = ?
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookmarks for user %d: %w", userID, err)
	}
	// rows holds a connection from the pool — always close it, even if the
	// scan loop bails out early.
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.Title,
			&b.Link,
			&b.Description,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bookmark rows: %w", err)
	}

	return bookmarks, nil
}

// Update persists title, link, and description and refreshes UpdatedAt.
// Returns apperror.ErrNotFound if the bookmark vanished since it was read
// (RowsAffected == 0), so a lost race with delete surfaces as 404.
func (s *BookmarkDB) Update(ctx context.Context, bookmark *model.Bookmark) error {
	bookmark.UpdatedAt = time.Now().UTC()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE bookmarks SET title = ?, link = ?, description = ?, updated_at = ? WHERE id = ?`,
		bookmark.Title,
		bookmark.Link,
		bookmark.Description,
		bookmark.UpdatedAt,
		bookmark.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating bookmark %d: %w", bookmark.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking updated rows for bookmark %d: %w", bookmark.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("bookmark", bookmark.ID)
	}

	return nil
}

// Delete removes a bookmark.
// Returns apperror.ErrNotFound if it's already absent — a second delete of
// the same id fails rather than silently succeeding.
func (s *BookmarkDB) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting bookmark %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking deleted rows for bookmark %d: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("bookmark", id)
	}

	return nil
}
