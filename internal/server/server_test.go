package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a full server against an in-memory database. Requests
// are driven through Handler, so no port is opened.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(Config{
		Port:      0,
		DBPath:    ":memory:",
		JWTSecret: "integration-test-secret-0123456789",
		JWTExpiry: time.Hour,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

// do sends a JSON request through the router and returns the recorder.
// An empty token leaves the Authorization header unset.
func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(into))
}

// signUp registers an account and returns its token.
func signUp(t *testing.T, s *Server, email, password string) string {
	t.Helper()

	rec := do(t, s, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "sign-up body: %s", rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignUpAndSignIn(t *testing.T) {
	s := newTestServer(t)

	signUp(t, s, "vlad@gmail.com", "super-secret")

	rec := do(t, s, http.MethodPost, "/api/v1/auth/sign-in", "", map[string]string{
		"email":    "vlad@gmail.com",
		"password": "super-secret",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
}

func TestSignUp_DuplicateEmailIs403(t *testing.T) {
	s := newTestServer(t)
	signUp(t, s, "vlad@gmail.com", "super-secret")

	// Taken email returns 403, not 409. Existing clients depend on it.
	rec := do(t, s, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{
		"email":    "vlad@gmail.com",
		"password": "another-secret",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSignIn_BadCredentialsAreUniform(t *testing.T) {
	s := newTestServer(t)
	signUp(t, s, "vlad@gmail.com", "super-secret")

	var bodies []string
	for _, creds := range []map[string]string{
		{"email": "nobody@gmail.com", "password": "super-secret"}, // unknown email
		{"email": "vlad@gmail.com", "password": "wrong"},          // wrong password
	} {
		rec := do(t, s, http.MethodPost, "/api/v1/auth/sign-in", "", creds)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}

	// Identical responses: the body must not reveal whether the email exists.
	assert.Equal(t, bodies[0], bodies[1])
}

func TestUserProfile(t *testing.T) {
	s := newTestServer(t)
	token := signUp(t, s, "vlad@gmail.com", "super-secret")

	rec := do(t, s, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	decode(t, rec, &profile)
	assert.Equal(t, "vlad@gmail.com", profile["email"])
	// The stored hash must never appear in a response, under any key.
	for key := range profile {
		assert.NotContains(t, key, "assword", "profile leaked a password field: %s", key)
	}

	rec = do(t, s, http.MethodPatch, "/api/v1/users", token, map[string]string{
		"firstName": "Vlad",
		"lastName":  "Dracul",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &profile)
	assert.Equal(t, "Vlad", profile["firstName"])
	assert.Equal(t, "Dracul", profile["lastName"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPatch, "/api/v1/users"},
		{http.MethodDelete, "/api/v1/users"},
		{http.MethodPost, "/api/v1/bookmarks"},
		{http.MethodGet, "/api/v1/bookmarks"},
		{http.MethodGet, "/api/v1/bookmarks/1"},
		{http.MethodPatch, "/api/v1/bookmarks/1"},
		{http.MethodDelete, "/api/v1/bookmarks/1"},
	} {
		rec := do(t, s, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := signUp(t, s, "vlad@gmail.com", "super-secret")

	// Create.
	rec := do(t, s, http.MethodPost, "/api/v1/bookmarks", token, map[string]string{
		"title":       "First bookmark",
		"link":        "https://go.dev",
		"description": "the language site",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create body: %s", rec.Body.String())

	var created struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Link  string `json:"link"`
	}
	decode(t, rec, &created)
	require.NotZero(t, created.ID)
	assert.Equal(t, "First bookmark", created.Title)

	// Read it back by id.
	rec = do(t, s, http.MethodGet, "/api/v1/bookmarks/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// List contains exactly this one.
	rec = do(t, s, http.MethodGet, "/api/v1/bookmarks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decode(t, rec, &list)
	require.Len(t, list, 1)

	// Edit.
	rec = do(t, s, http.MethodPatch, "/api/v1/bookmarks/1", token, map[string]string{
		"title": "Renamed",
		"link":  "https://go.dev/doc",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		Title string `json:"title"`
	}
	decode(t, rec, &updated)
	assert.Equal(t, "Renamed", updated.Title)

	// Delete once: 204. Delete again: 404, not a silent success.
	rec = do(t, s, http.MethodDelete, "/api/v1/bookmarks/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodDelete, "/api/v1/bookmarks/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookmarkList_EmptyIsJSONArray(t *testing.T) {
	s := newTestServer(t)
	token := signUp(t, s, "vlad@gmail.com", "super-secret")

	rec := do(t, s, http.MethodGet, "/api/v1/bookmarks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestBookmarkOwnership(t *testing.T) {
	s := newTestServer(t)
	ownerToken := signUp(t, s, "owner@gmail.com", "super-secret")
	strangerToken := signUp(t, s, "stranger@gmail.com", "super-secret")

	rec := do(t, s, http.MethodPost, "/api/v1/bookmarks", ownerToken, map[string]string{
		"title": "private", "link": "https://example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Someone else's bookmark: it exists, so 403 — not 404.
	for _, tc := range []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, map[string]string{"title": "x", "link": "y"}},
		{http.MethodDelete, nil},
	} {
		rec = do(t, s, tc.method, "/api/v1/bookmarks/1", strangerToken, tc.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s as stranger", tc.method)
	}

	// A bookmark that doesn't exist at all: 404 for everyone.
	rec = do(t, s, http.MethodGet, "/api/v1/bookmarks/9999", strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The stranger's list must not include it.
	rec = do(t, s, http.MethodGet, "/api/v1/bookmarks", strangerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestBookmarkIDMustBeNumeric(t *testing.T) {
	s := newTestServer(t)
	token := signUp(t, s, "vlad@gmail.com", "super-secret")

	for _, id := range []string{"abc", "1.5", "-1", "0"} {
		rec := do(t, s, http.MethodGet, "/api/v1/bookmarks/"+id, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
	}
}

func TestMalformedJSONBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up",
		bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountDeletion(t *testing.T) {
	s := newTestServer(t)
	token := signUp(t, s, "vlad@gmail.com", "super-secret")

	rec := do(t, s, http.MethodPost, "/api/v1/bookmarks", token, map[string]string{
		"title": "orphan-to-be", "link": "https://example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token still decodes, but its account is gone: 401 from then on.
	rec = do(t, s, http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// And signing in again fails like any unknown account.
	rec = do(t, s, http.MethodPost, "/api/v1/auth/sign-in", "", map[string]string{
		"email":    "vlad@gmail.com",
		"password": "super-secret",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
