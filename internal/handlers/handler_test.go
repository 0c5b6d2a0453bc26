package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/danielmartins/team-tasks-api/internal/auth"
	"github.com/danielmartins/team-tasks-api/internal/database"
	"github.com/danielmartins/team-tasks-api/internal/middleware"
	"github.com/danielmartins/team-tasks-api/internal/models"
	"github.com/danielmartins/team-tasks-api/internal/repository"
	"github.com/danielmartins/team-tasks-api/internal/services"
)

type handlerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.JWTManager
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo, zap.NewNop())
	teamService := services.NewTeamService(teamRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, teamRepo, nil)

	authHandler := NewAuthHandler(authService, nil)
	userHandler := NewUserHandler(userService)
	teamHandler := NewTeamHandler(teamService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokens))
		{
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.DELETE("/profile", userHandler.DeleteOwnAccount)
			users.GET("/:id", middleware.RequireAdmin(), userHandler.GetUser)
			users.PUT("/:id", middleware.RequireAdmin(), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
		}

		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth(tokens))
		{
			teams.POST("", middleware.RequireAdmin(), teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", middleware.RequireAdmin(), teamHandler.UpdateTeam)
			teams.DELETE("/:id", middleware.RequireAdmin(), teamHandler.DeleteTeam)
			teams.GET("/:id/members", teamHandler.GetTeamMembers)
			teams.POST("/:id/members", middleware.RequireAdmin(), teamHandler.AddMember)
			teams.DELETE("/:id/members/:userId", middleware.RequireAdmin(), teamHandler.RemoveMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.GET("/:id/history", taskHandler.GetTaskHistory)
		}
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return handlerTestEnv{
		db:     db,
		router: r,
		tokens: tokens,
	}
}

func (env handlerTestEnv) createUser(t *testing.T, name, email string, role models.Role) *models.User {
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

func (env handlerTestEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := env.tokens.Generate(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

// request performs an HTTP request against the test router. A non-empty
// token is sent as a bearer credential.
func (env handlerTestEnv) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
