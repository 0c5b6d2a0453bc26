package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmartins/team-tasks-api/internal/dto"
	"github.com/danielmartins/team-tasks-api/internal/models"
)

func TestListUsersRequiresAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	w := env.request(t, http.MethodGet, "/api/users", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/users", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
}

func TestGetAndUpdateProfile(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodGet, "/api/users/profile", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.Equal(t, "alice@example.com", profile.Email)

	w = env.request(t, http.MethodPut, "/api/users/profile", env.tokenFor(t, alice), map[string]any{
		"name": "Alice Cooper",
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.Equal(t, "Alice Cooper", profile.Name)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)
	env.createUser(t, "Bob", "bob@example.com", models.RoleMember)

	w := env.request(t, http.MethodPut, "/api/users/profile", env.tokenFor(t, alice), map[string]any{
		"email": "bob@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminUpdatesUserRole(t *testing.T) {
	env := setupHandlerTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), env.tokenFor(t, admin), map[string]any{
		"role": "ADMIN",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, models.RoleAdmin, updated.Role)
}

func TestAdminUpdateRejectsInvalidRole(t *testing.T) {
	env := setupHandlerTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), env.tokenFor(t, admin), map[string]any{
		"role": "SUPERUSER",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	env := setupHandlerTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", admin.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDeletesUser(t *testing.T) {
	env := setupHandlerTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMemberCannotDeleteOtherUsers(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)
	bob := env.createUser(t, "Bob", "bob@example.com", models.RoleMember)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteOwnAccountEndpoint(t *testing.T) {
	env := setupHandlerTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	w := env.request(t, http.MethodDelete, "/api/users/profile", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The token still decodes but the account is gone.
	w = env.request(t, http.MethodGet, "/api/users/profile", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
