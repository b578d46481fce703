package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/service"
)

// UserHandler exposes the authenticated user's own profile.
//
// All three routes operate on "the current user" — there is no user id in
// the URL. The auth middleware resolves the bearer token to a user record
// and the handlers read it from the request context, so one account can
// never address another's profile.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// updateUserRequest is the PATCH /users body. Both fields are required.
type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// HandleGet returns the authenticated user's profile.
//
// HTTP: GET /api/v1/users
// Auth: Required
//
// The response is the user record as JSON; the password hash is excluded by
// the model's `json:"-"` tag, not by handler-side filtering.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		unauthenticated(w)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate sets the user's first and last name.
//
// HTTP: PATCH /api/v1/users
// BODY: {"firstName": "Ada", "lastName": "Lovelace"}
//
// Responses: 200 with the updated profile, 400 if either field is missing
// or empty, 404 if the account was deleted concurrently.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("update user: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	updated, err := h.users.Update(r.Context(), user.ID, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes the authenticated user's account (and, via the
// storage cascade, all their bookmarks).
//
// HTTP: DELETE /api/v1/users
//
// Responses: 204 on success, 404 if the account is already gone.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return
	}

	if err := h.users.Delete(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// unauthenticated writes the standard 401 body. Reached only if a protected
// handler is mounted without the auth middleware.
func unauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthenticated",
		Message: "valid authentication required",
	})
}
