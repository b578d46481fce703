// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The argon2id hash must never leave the server. The "-" tag tells
// encoding/json to skip the field entirely, so even a careless
// `writeJSON(w, 200, user)` cannot leak it. This is enforced at the type
// level rather than relying on every handler to remember to strip it.
//
// WHY int64 FOR ID?
// The database assigns ids from an AUTOINCREMENT integer column. SQLite
// rowids are 64-bit, so int64 avoids overflow and matches what
// sql.Result.LastInsertId() returns.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`     // unique across all users
	PasswordHash string    `json:"-"`         // argon2id encoded hash, never serialized
	FirstName    string    `json:"firstName"` // optional, empty until the user sets it
	LastName     string    `json:"lastName"`  // optional, empty until the user sets it
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
