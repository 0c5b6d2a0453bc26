package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/danielmartins/team-tasks-api/internal/auth"
	"github.com/danielmartins/team-tasks-api/internal/database"
	"github.com/danielmartins/team-tasks-api/internal/models"
	"github.com/danielmartins/team-tasks-api/internal/repository"
)

type testEnv struct {
	db          *gorm.DB
	authService *AuthService
	userService *UserService
	teamService *TeamService
	taskService *TaskService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
		&models.TaskHistory{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewJWTManager("test-secret", 0)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:          db,
		authService: NewAuthService(userRepo, tokens),
		userService: NewUserService(userRepo, zap.NewNop()),
		teamService: NewTeamService(teamRepo, userRepo),
		taskService: NewTaskService(taskRepo, teamRepo, nil),
	}
}

func (env testEnv) createUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env testEnv) createTeam(t *testing.T, name string, memberIDs ...uint64) *models.Team {
	t.Helper()

	team, err := env.teamService.CreateTeam(name, nil, memberIDs)
	require.NoError(t, err)
	return team
}
