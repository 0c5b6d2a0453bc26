package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmartins/team-tasks-api/internal/dto"
	"github.com/danielmartins/team-tasks-api/internal/models"
)

func TestRegisterReturnsUserAndToken(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice@example.com", response.User.Email)
	require.Equal(t, models.RoleMember, response.User.Role)
	require.NotEmpty(t, response.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Other Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterInvalidBody(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUser(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodGet, "/api/auth/me", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, alice.ID, response.ID)
	require.Equal(t, "alice@example.com", response.Email)
}

func TestGetCurrentUserWithoutToken(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUserWithGarbageToken(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
