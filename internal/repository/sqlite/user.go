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

// UserDB persists users in the users table. Obtain one from DB.Users.
type UserDB struct {
	conn *sql.DB
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user and fills in the generated ID and timestamps.
//
// The id comes from SQLite's AUTOINCREMENT via sql.Result.LastInsertId —
// we take a pointer receiver argument so the caller's struct ends up with
// the canonical row values.
//
// A duplicate email trips the UNIQUE constraint on users.email; we detect
// the driver's extended result code and translate it to apperror.Conflict
// so the service layer never has to know about SQLite error numbering.
func (s *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isConstraintErr(err, codeUniqueViolation) {
			return apperror.Conflict(fmt.Sprintf("email %s is already registered", user.Email))
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by primary key.
// Returns apperror.ErrNotFound if no user exists with that id.
func (s *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by their unique email.
// Returns apperror.ErrNotFound if no user is registered under that email.
func (s *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE email = ?`, email)
}

func (s *UserDB) getUser(ctx context.Context, query string, key any) (*model.User, error) {
	var u model.User

	err := s.conn.QueryRowContext(ctx, query, key).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		// sql.ErrNoRows just means "no matching row" — translate it to the
		// domain's NotFound instead of leaking database/sql internals.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", key, err)
	}

	return &u, nil
}

// Update persists the user's profile fields and refreshes UpdatedAt.
//
// RowsAffected == 0 means the row vanished between the caller's read and
// this write (a concurrent account deletion) — surfaced as NotFound, never
// a silent no-op.
func (s *UserDB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		user.FirstName,
		user.LastName,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking updated rows for user %d: %w", user.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes a user. Owned bookmarks go with it via ON DELETE CASCADE.
// Returns apperror.ErrNotFound if the user is already absent.
func (s *UserDB) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking deleted rows for user %d: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
