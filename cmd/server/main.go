package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"clinicboard/internal/handler"
	"clinicboard/internal/httpserver"
	"clinicboard/internal/listview"
	"clinicboard/internal/repository"
	"clinicboard/internal/service"
	"clinicboard/pkg/config"
	"clinicboard/pkg/db"
	"clinicboard/pkg/logger"
	"clinicboard/pkg/mq"
	"clinicboard/pkg/redis"
)

func main() {
	cfg, err := config.Load(config.GetConfigEnv(), "config")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting clinicboard server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()
	log.Info("Database connection established successfully")

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	orgRepo := repository.NewOrganizationRepository(dbConn)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	subtaskRepo := repository.NewSubtaskRepository(dbConn, log)
	commentRepo := repository.NewCommentRepository(dbConn, log)
	invitationRepo := repository.NewInvitationRepository(dbConn, log)

	// Services
	authService := service.NewAuthService(userRepo, rdb, cfg.JWT.Secret, log)
	teamService := service.NewTeamService(userRepo, invitationRepo, publisher, log)
	onboardingService := service.NewOnboardingService(orgRepo, userRepo, teamService, rdb, log)
	taskService := service.NewTaskService(taskRepo, subtaskRepo, commentRepo, log)
	settingsService := service.NewSettingsService(orgRepo, rdb, log)

	reconciler := listview.NewReconciler(taskRepo, taskService, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	onboardingHandler := handler.NewOnboardingHandler(onboardingService, log)
	taskHandler := handler.NewTaskHandler(authService, taskService, reconciler, log)
	teamHandler := handler.NewTeamHandler(authService, teamService, log)
	settingsHandler := handler.NewSettingsHandler(authService, settingsService, log)

	router := httpserver.NewRouter(
		authHandler,
		onboardingHandler,
		taskHandler,
		teamHandler,
		settingsHandler,
		authService,
		cfg.JWT.Secret,
		dbConn,
		publisher,
		log,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down clinicboard server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("clinicboard server shutdown complete")
}
