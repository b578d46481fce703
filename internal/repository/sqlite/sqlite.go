// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single
// file. No separate database server to install, configure, or manage.
// Perfect for single-server deployments, development, and testing (use
// ":memory:" for an in-memory DB).
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — no C compiler needed,
// works everywhere Go works.
//
// STRUCTURED ERROR CODES:
// The driver surfaces constraint violations as *sqlite.Error values carrying
// SQLite's extended result codes. The repositories in this package translate
// the two codes the services care about — unique violation (duplicate email)
// and foreign-key violation (bookmark for a deleted user) — into apperror
// values. Anything else propagates unchanged and surfaces as a 500.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and hands out the per-entity stores.
//
// sql.DB is itself a pool, not a single connection, so one *DB is safe for
// concurrent use by every request handler. Per-statement atomicity and
// row-level isolation come from SQLite; no additional locking lives here.
type DB struct {
	conn      *sql.DB
	users     *UserDB
	bookmarks *BookmarkDB
}

// Users returns the store implementing repository.UserRepository.
func (db *DB) Users() *UserDB { return db.users }

// Bookmarks returns the store implementing repository.BookmarkRepository.
func (db *DB) Bookmarks() *BookmarkDB { return db.bookmarks }

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/bookmarks.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	// "sqlite" is the driver name registered by the modernc.org/sqlite
	// package's init function.
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection only. SQLite allows a single writer anyway, and the
	// PRAGMAs below are per-connection — with a larger pool, a request
	// could land on a connection that never saw foreign_keys=ON. This also
	// makes ":memory:" behave: every new pool connection would otherwise
	// get its own fresh, empty in-memory database.
	conn.SetMaxOpenConns(1)

	// sql.Open doesn't actually connect — Ping forces the first connection
	// so a bad path or permissions problem surfaces here, not on the first
	// query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// We need them ON: bookmarks reference users, and deleting an account
	// must cascade to its bookmarks.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:      conn,
		users:     &UserDB{conn: conn},
		bookmarks: &BookmarkDB{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Defer this wherever New is
// called so the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent,
// which is enough for a two-table schema; a real migration tool would be
// overkill here.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// ON DELETE CASCADE: removing an account removes its bookmarks in the
	// same statement, so a deleted user never leaves orphaned rows.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS bookmarks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			link        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating bookmarks table: %w", err)
	}

	return nil
}

// isConstraintErr reports whether err is a SQLite constraint violation with
// the given extended result code (e.g. sqlite3.SQLITE_CONSTRAINT_UNIQUE).
//
// errors.As walks the wrap chain, so callers can pass errors that have
// already been annotated with fmt.Errorf("...: %w", err).
func isConstraintErr(err error, code int) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == code
}

// Extended result codes used by the repositories. Re-exported locally so the
// user/bookmark files read naturally.
const (
	codeUniqueViolation     = sqlite3.SQLITE_CONSTRAINT_UNIQUE
	codeForeignKeyViolation = sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
)
