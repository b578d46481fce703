// Package auth provides password hashing, JWT handling, and the
// authentication middleware for the bookmarks API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client POSTs email+password to /api/v1/auth/sign-up or /sign-in
// 2. Server verifies credentials and issues a JWT access token
// 3. Client sends `Authorization: Bearer <token>` on protected requests
// 4. Middleware validates the JWT, loads the user, and puts the full record
//    in the request context for handlers
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. Everything needed (user id, email, expiry) is inside the
// signed token, and the HMAC signature ensures nobody can tamper with it
// without the secret key.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "bookmarks-api"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens and the lifetime
// of issued tokens. The same secret must be used for both operations, so
// tokens remain valid across restarts as long as the secret is stable.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data in
// production. Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, expiry time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if expiry <= 0 {
		return nil, errors.New("auth: token expiry must be positive")
	}
	return &TokenService{secret: []byte(secret), expiry: expiry}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (Issuer,
// Subject, ExpiresAt, IssuedAt) and adds the account email.
//
// The "sub" claim carries the user id as a decimal string — JWT subjects
// are strings by definition, so the int64 id is formatted on signing and
// parsed back on validation.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new access token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256)
//   - Symmetric: same key for signing and verifying
//   - Fast and simple — good for single-server deployments
func (s *TokenService) Generate(userID int64, email string) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the user id from the "sub" claim if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps with the same lib)
//   - Algorithm is HS256 (prevents algorithm confusion attacks, where an
//     attacker submits a token signed with "none" or an asymmetric scheme)
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: token subject is not a valid user id")
	}

	return userID, nil
}
