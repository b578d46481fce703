package model

import "time"

// Bookmark represents a saved link owned by exactly one user.
//
// UserID is the foreign key to the owning user. Ownership is enforced in the
// service layer (fetch, then compare UserID against the authenticated user),
// not by the database — the schema only guarantees the row references a real
// user.
type Bookmark struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"` // optional
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
