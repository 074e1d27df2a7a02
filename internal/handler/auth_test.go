package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		`{"email":"alice@example.com","password":"longenough","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	data := decodeSuccess(t, rec)
	assert.NotEmpty(t, data["token"])

	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password", "hash must never appear in responses")
}

func TestRegisterEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		`{"email":"alice@example.com","password":"short","name":"Alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRegisterEndpointMalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, message := decodeError(t, rec)
	assert.Equal(t, "Invalid request body", message)
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "dup@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		`{"email":"dup@example.com","password":"longenough","name":"Second"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	_, message := decodeError(t, rec)
	assert.Equal(t, "Email already registered", message)
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "bob@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		`{"email":"bob@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	data := decodeSuccess(t, rec)
	assert.NotEmpty(t, data["token"])
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "carol@example.com")

	wrongPw := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		`{"email":"carol@example.com","password":"wrongwrong"}`)
	unknown := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		`{"email":"nobody@example.com","password":"wrongwrong"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)

	_, msgWrongPw := decodeError(t, wrongPw)
	_, msgUnknown := decodeError(t, unknown)
	assert.Equal(t, "Invalid credentials", msgWrongPw)
	assert.Equal(t, msgWrongPw, msgUnknown, "login failures must not reveal whether the email exists")
}

func TestProfileEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "dave@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/auth/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeSuccess(t, rec)
	assert.Equal(t, "dave@example.com", data["email"])
}

func TestProfileEndpointRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeError(t, rec)
	assert.Equal(t, "No token provided", message)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "erin@example.com")

	rec := doJSON(t, router, http.MethodPatch, "/api/auth/profile", token, `{"name":"Erin Updated"}`)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	data := decodeSuccess(t, rec)
	assert.Equal(t, "Erin Updated", data["name"])
}

func TestDeleteAccountEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "gone@example.com")

	rec := doJSON(t, router, http.MethodDelete, "/api/auth/profile", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Token still verifies, but the account is gone.
	rec = doJSON(t, router, http.MethodGet, "/api/auth/profile", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
