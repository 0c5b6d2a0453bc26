package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/danielmartins/team-tasks-api/internal/auth"
	"github.com/danielmartins/team-tasks-api/internal/config"
	"github.com/danielmartins/team-tasks-api/internal/database"
	"github.com/danielmartins/team-tasks-api/internal/handlers"
	"github.com/danielmartins/team-tasks-api/internal/logger"
	"github.com/danielmartins/team-tasks-api/internal/metrics"
	"github.com/danielmartins/team-tasks-api/internal/middleware"
	"github.com/danielmartins/team-tasks-api/internal/repository"
	"github.com/danielmartins/team-tasks-api/internal/services"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logg.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logg.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logg.Fatal("Failed to create indexes", zap.Error(err))
	}

	created, err := database.EnsureAdminUser(database.GetDB(), cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logg.Fatal("Failed to seed admin user", zap.Error(err))
	}
	if created {
		logg.Info("Seeded initial admin user", zap.String("email", cfg.AdminEmail))
	}

	m := metrics.New("teamtasks", prometheus.DefaultRegisterer)
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	userRepo := repository.NewUserRepository(database.GetDB())
	teamRepo := repository.NewTeamRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo, logg)
	teamService := services.NewTeamService(teamRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, teamRepo, m)

	authHandler := handlers.NewAuthHandler(authService, m)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logg))
	r.Use(middleware.Metrics(m))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

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

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logg.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("Forced shutdown", zap.Error(err))
	}

	if sqlDB, err := database.GetDB().DB(); err == nil {
		sqlDB.Close()
	}
	logg.Info("Server stopped")
}
