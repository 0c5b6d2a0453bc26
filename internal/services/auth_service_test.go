package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmartins/team-tasks-api/internal/models"
)

func TestRegisterCreatesMember(t *testing.T) {
	env := setupTestEnv(t)

	user, token, err := env.authService.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, models.RoleMember, user.Role)
	require.Equal(t, "alice@example.com", user.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	_, _, err := env.authService.Register(RegisterInput{
		Name:     "Other Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.authService.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginRoundTrip(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.authService.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	user, token, err := env.authService.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Alice", user.Name)
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.authService.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, _, err = env.authService.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.authService.Login(LoginInput{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
