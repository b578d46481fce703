// Package service — authentication business logic.
//
// AuthService is the business logic layer for authentication. It sits between
// the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ PasswordService (argon2id)
//	                   ↘ TokenService (JWT)
//
// KEY RESPONSIBILITIES:
//   - Sign-up: validate credentials, hash the password, persist the account,
//     issue the first access token
//   - Sign-in: look up the account, verify the password, issue a token
//   - Keep all auth rules in one place, away from HTTP concerns
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// credentialsIncorrect is the single message used for every sign-in failure.
//
// UNIFORM FAILURE MESSAGE:
// "no such account" and "wrong password" must be indistinguishable to the
// caller. If they differed, anyone could probe /auth/sign-in to discover
// which emails are registered (user enumeration).
const credentialsIncorrect = "credentials incorrect"

// AuthService handles the authentication business logic.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// SignUp registers a new account and returns its first access token.
//
// FLOW:
//  1. Validate the email format and require a non-empty password
//  2. Hash the password with argon2id (fresh random salt per call)
//  3. Insert the user — a duplicate email surfaces as apperror.ErrConflict
//     from the repository (the UNIQUE constraint, not a racy pre-check)
//  4. Issue a JWT for the new user
//
// WHY NO "SELECT first, INSERT if absent"?
// Two concurrent sign-ups for the same email would both pass the check and
// both insert. The unique constraint is the only race-free arbiter, so we
// insert unconditionally and translate the constraint violation.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (string, error) {
	email, err := validateEmail(email)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return "", err
		}
		return "", fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user signed up",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	return token, nil
}

// SignIn verifies an email/password pair and returns a fresh access token.
//
// Both failure modes — unknown email and wrong password — return the exact
// same Forbidden error (see credentialsIncorrect above). Don't "improve"
// the messages to be more specific; the vagueness is the point.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	email, err := validateEmail(email)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Forbidden(credentialsIncorrect)
		}
		return "", fmt.Errorf("service/auth: looking up user %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("sign-in rejected", slog.Int64("userID", user.ID))
		return "", apperror.Forbidden(credentialsIncorrect)
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	return token, nil
}

// validateEmail trims and checks the address format, returning the cleaned
// value. mail.ParseAddress accepts "Name <a@b>" forms too, so we require the
// parsed address to round-trip to the bare input.
func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.ValidationFailed("email", "email is not a valid address")
	}

	return email, nil
}
