package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmartins/team-tasks-api/internal/models"
)

func TestUpdateProfileChangesEmail(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	email := "alice@corp.example.com"
	updated, err := env.userService.UpdateProfile(alice.ID, UpdateProfileInput{Email: &email})
	require.NoError(t, err)
	require.Equal(t, email, updated.Email)
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)
	env.createUser(t, "Bob", "bob@example.com", models.RoleMember)

	email := "bob@example.com"
	_, err := env.userService.UpdateProfile(alice.ID, UpdateProfileInput{Email: &email})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateProfileRejectsShortPassword(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	password := "short"
	_, err := env.userService.UpdateProfile(alice.ID, UpdateProfileInput{Password: &password})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestUpdateAnyUserChangesRole(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	role := models.RoleAdmin
	updated, err := env.userService.UpdateAnyUser(alice.ID, UpdateProfileInput{}, &role)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, updated.Role)
}

func TestDeleteUserRejectsSelfDeletion(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	err := env.userService.DeleteUser(actorFor(admin), admin.ID)
	require.ErrorIs(t, err, ErrSelfDeletion)
}

func TestDeleteUserUnknownTarget(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	err := env.userService.DeleteUser(actorFor(admin), 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserReassignsTasksToSurvivingAdmin(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)
	team := env.createTeam(t, "Platform", alice.ID)

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Actor:  actorFor(alice),
		Title:  "Set up CI",
		Status: models.TaskStatusInProgress,
		TeamID: team.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.userService.DeleteUser(actorFor(admin), alice.ID))

	// The task survives, reassigned to the admin and reset to PENDING.
	var reassigned models.Task
	require.NoError(t, env.db.First(&reassigned, task.ID).Error)
	require.Equal(t, admin.ID, reassigned.AssignedTo)
	require.Equal(t, models.TaskStatusPending, reassigned.Status)

	// The deleted user's memberships and history authorship are gone.
	var members int64
	require.NoError(t, env.db.Model(&models.TeamMember{}).Where("user_id = ?", alice.ID).Count(&members).Error)
	require.EqualValues(t, 0, members)

	var history int64
	require.NoError(t, env.db.Model(&models.TaskHistory{}).Where("changed_by = ?", alice.ID).Count(&history).Error)
	require.EqualValues(t, 0, history)

	var users int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", alice.ID).Count(&users).Error)
	require.EqualValues(t, 0, users)
}

func TestDeleteOwnAccount(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleMember)

	require.NoError(t, env.userService.DeleteOwnAccount(alice.ID))

	_, err := env.userService.GetProfile(alice.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}
