package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/service"
)

// BookmarkHandler manages CRUD operations for the authenticated user's
// bookmarks.
//
// The handler parses HTTP (JSON bodies, the {id} path parameter) and writes
// responses; the ownership rule and field validation live in the
// BookmarkService.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
	logger    *slog.Logger
}

// NewBookmarkHandler creates a BookmarkHandler.
func NewBookmarkHandler(bookmarks *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// bookmarkRequest is the body for both create and update.
type bookmarkRequest struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// HandleCreate saves a new bookmark owned by the current user.
//
// HTTP: POST /api/v1/bookmarks
// BODY: {"title": "t", "link": "l", "description": "optional"}
//
// Responses: 201 with the created bookmark, 400 on invalid body/fields,
// 404 if the owning account vanished mid-request.
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	req, ok := h.decodeBookmark(w, r)
	if !ok {
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), user.ID, req.Title, req.Link, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookmark)
}

// HandleGetByID returns one bookmark.
//
// HTTP: GET /api/v1/bookmarks/{id}
//
// Responses: 200 with the bookmark, 400 on a non-numeric id, 404 if no such
// bookmark, 403 if it belongs to another user.
func (h *BookmarkHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	id, ok := h.bookmarkID(w, r)
	if !ok {
		return
	}

	bookmark, err := h.bookmarks.GetByID(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmark)
}

// HandleList returns all of the current user's bookmarks.
//
// HTTP: GET /api/v1/bookmarks
//
// Responses: 200 with a JSON array (empty array, not null, when the user
// has no bookmarks).
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	bookmarks, err := h.bookmarks.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmarks)
}

// HandleUpdate replaces a bookmark's title, link, and description.
//
// HTTP: PATCH /api/v1/bookmarks/{id}
// BODY: same as create; title and link required non-empty.
//
// Responses: 200 with the updated bookmark, 400, 403, or 404 as for get.
func (h *BookmarkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	id, ok := h.bookmarkID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeBookmark(w, r)
	if !ok {
		return
	}

	bookmark, err := h.bookmarks.Update(r.Context(), user.ID, id, req.Title, req.Link, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmark)
}

// HandleDelete removes a bookmark.
//
// HTTP: DELETE /api/v1/bookmarks/{id}
//
// Responses: 204 on success, 400/403/404 as for get. A repeat delete of the
// same id returns 404 — the operation is deliberately not idempotent.
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	id, ok := h.bookmarkID(w, r)
	if !ok {
		return
	}

	if err := h.bookmarks.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// bookmarkID parses the {id} path parameter. A non-numeric id is a
// validation failure (400), not a lookup miss (404) — the URL itself is
// malformed, so we never reach the database.
func (h *BookmarkHandler) bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "bookmark id must be a positive integer",
		})
		return 0, false
	}

	return id, true
}

// decodeBookmark parses the shared create/update request body.
func (h *BookmarkHandler) decodeBookmark(w http.ResponseWriter, r *http.Request) (bookmarkRequest, bool) {
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("bookmark: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return bookmarkRequest{}, false
	}
	return req, true
}
