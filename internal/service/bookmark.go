// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces ownership, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository INTERFACES, not the concrete sqlite type, so
// tests can pass in-memory fakes and the storage backend can change without
// touching business rules. Services return domain errors (apperror), never
// HTTP status codes — the handler layer does that translation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// Validation constants for bookmark fields.
const (
	MaxTitleLength       = 200
	MaxLinkLength        = 2048 // common browser/server URL limit
	MaxDescriptionLength = 10000
)

// BookmarkService handles business logic for bookmarks, including the
// ownership rule: a bookmark is only visible and mutable to its owner.
//
// OWNERSHIP CHECK ORDER — deliberate and load-bearing:
// Read operations fetch the bookmark by id first, THEN compare owners.
// A missing bookmark is 404; an existing bookmark owned by someone else is
// 403. Yes, that 403 tells a non-owner the id exists. This is a known,
// accepted trade-off kept for compatibility with existing clients — do not
// collapse both cases into 404 without a deliberate API change.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
	logger    *slog.Logger
}

// NewBookmarkService creates a BookmarkService.
func NewBookmarkService(bookmarks repository.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// Create validates and saves a new bookmark owned by userID.
//
// Title and link are required non-empty; description is optional. If the
// owning account is deleted while this request is in flight, the insert
// fails the foreign-key check and the repository reports NotFound — no
// partial record is left behind.
func (s *BookmarkService) Create(ctx context.Context, userID int64, title, link, description string) (*model.Bookmark, error) {
	title, link, description, err := validateBookmarkFields(title, link, description)
	if err != nil {
		return nil, err
	}

	bookmark := &model.Bookmark{
		UserID:      userID,
		Title:       title,
		Link:        link,
		Description: description,
	}

	if err := s.bookmarks.Create(ctx, bookmark); err != nil {
		return nil, err
	}

	s.logger.Info("bookmark created",
		slog.Int64("id", bookmark.ID),
		slog.Int64("userID", userID),
	)

	return bookmark, nil
}

// GetByID returns the bookmark with the given id if userID owns it.
// Missing id → NotFound; wrong owner → Forbidden (see the ownership note on
// BookmarkService).
func (s *BookmarkService) GetByID(ctx context.Context, userID, bookmarkID int64) (*model.Bookmark, error) {
	return s.fetchOwned(ctx, userID, bookmarkID)
}

// List returns all bookmarks owned by userID, in insertion order.
func (s *BookmarkService) List(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	bookmarks, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks for user %d: %w", userID, err)
	}
	return bookmarks, nil
}

// Update replaces the bookmark's title, link, and description. The same
// non-empty constraints as Create apply. Missing id → NotFound; wrong
// owner → Forbidden; the stored record is untouched on any failure.
func (s *BookmarkService) Update(ctx context.Context, userID, bookmarkID int64, title, link, description string) (*model.Bookmark, error) {
	title, link, description, err := validateBookmarkFields(title, link, description)
	if err != nil {
		return nil, err
	}

	bookmark, err := s.fetchOwned(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}

	bookmark.Title = title
	bookmark.Link = link
	bookmark.Description = description

	// The row can still vanish between our read and this write (a racing
	// delete); the repository reports that as NotFound via RowsAffected.
	if err := s.bookmarks.Update(ctx, bookmark); err != nil {
		return nil, err
	}

	s.logger.Info("bookmark updated",
		slog.Int64("id", bookmark.ID),
		slog.Int64("userID", userID),
	)

	return bookmark, nil
}

// Delete removes the bookmark if userID owns it. Deleting the same id twice
// succeeds once and then fails NotFound — deliberately not idempotent.
func (s *BookmarkService) Delete(ctx context.Context, userID, bookmarkID int64) error {
	if _, err := s.fetchOwned(ctx, userID, bookmarkID); err != nil {
		return err
	}

	if err := s.bookmarks.Delete(ctx, bookmarkID); err != nil {
		return err
	}

	s.logger.Info("bookmark deleted",
		slog.Int64("id", bookmarkID),
		slog.Int64("userID", userID),
	)

	return nil
}

// fetchOwned loads a bookmark and enforces the ownership rule.
func (s *BookmarkService) fetchOwned(ctx context.Context, userID, bookmarkID int64) (*model.Bookmark, error) {
	bookmark, err := s.bookmarks.GetByID(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	if bookmark.UserID != userID {
		return nil, apperror.Forbidden("access to this bookmark is denied")
	}

	return bookmark, nil
}

// validateBookmarkFields trims and checks the shared create/update input,
// returning the cleaned values.
func validateBookmarkFields(title, link, description string) (string, string, string, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	description = strings.TrimSpace(description)

	if title == "" {
		return "", "", "", apperror.ValidationFailed("title", "bookmark title is required")
	}
	if len(title) > MaxTitleLength {
		return "", "", "", apperror.ValidationFailed("title",
			fmt.Sprintf("bookmark title must be %d characters or less", MaxTitleLength))
	}
	if link == "" {
		return "", "", "", apperror.ValidationFailed("link", "bookmark link is required")
	}
	if len(link) > MaxLinkLength {
		return "", "", "", apperror.ValidationFailed("link",
			fmt.Sprintf("bookmark link must be %d characters or less", MaxLinkLength))
	}
	if len(description) > MaxDescriptionLength {
		return "", "", "", apperror.ValidationFailed("description",
			fmt.Sprintf("bookmark description must be %d characters or less", MaxDescriptionLength))
	}

	return title, link, description, nil
}
