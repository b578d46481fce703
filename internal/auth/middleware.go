package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", u), ANY package that knows the string "user"
// can read or shadow your value. Using a package-private type prevents
// collisions: only THIS package can create a key of type contextKey.
type contextKey string

const userKey contextKey = "user"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It extracts the bearer token from the Authorization header, validates it,
// and resolves the token's subject to a full user record. If the token is
// missing, invalid, expired, or the account has since been deleted, it
// returns 401 Unauthorized and stops the request chain.
//
// The resolved user is stored in the request context, so downstream handlers
// receive it explicitly via UserFromContext — there is no ambient mutable
// state on the request.
//
// WHY LOOK UP THE USER ON EVERY REQUEST?
// The token only proves "this id was authenticated before expiry". The
// account may have been deleted in the meantime; hitting the store turns a
// stale token into a clean 401 instead of letting handlers act on a ghost
// user. It also gives handlers the current profile fields, not the ones
// frozen into the token.
func RequireAuth(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearerToken(r)
			if err != nil {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				// A valid token for a deleted account is still
				// unauthenticated, not a 404.
				if errors.Is(err, apperror.ErrNotFound) {
					unauthorized(w)
					return
				}
				http.Error(w, `{"error":"internal_error","message":"An internal error occurred"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) if the request is anonymous. On routes wrapped with
// RequireAuth it always returns (user, true).
//
// Usage in handlers:
//
//	user, ok := auth.UserFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the JWT from the Authorization header.
// Expected format: "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("auth: missing Authorization header")
	}

	// The scheme comparison is case-insensitive per RFC 9110.
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("auth: Authorization header is not a bearer token")
	}

	return strings.TrimSpace(token), nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthenticated","message":"valid authentication required"}`))
}
