package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/bookmarks/internal/service"
)

// AuthHandler exposes the two public (unauthenticated) endpoints.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignUp → POST /api/v1/auth/sign-up: register, return first token
//   - HandleSignIn → POST /api/v1/auth/sign-in: verify, return fresh token
//
// The handler only parses JSON and writes responses; every rule about
// emails, passwords, and tokens lives in the AuthService.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// credentialsRequest is the request body shared by sign-up and sign-in.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the success body for both auth endpoints.
type tokenResponse struct {
	Token string `json:"token"`
}

// HandleSignUp registers a new account.
//
// HTTP: POST /api/v1/auth/sign-up
// BODY: {"email": "me@there.com", "password": "..."}
//
// Responses: 201 {"token": "..."} on success, 400 on a malformed body or
// invalid fields, 403 if the email is already taken.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("sign-up: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	token, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// HandleSignIn authenticates an existing account.
//
// HTTP: POST /api/v1/auth/sign-in
// BODY: {"email": "me@there.com", "password": "..."}
//
// Responses: 201 {"token": "..."} on success, 400 on a malformed body,
// 403 on bad credentials (same body whether the email or password is wrong).
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("sign-in: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}
