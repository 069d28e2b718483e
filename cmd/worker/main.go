package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"clinicboard/internal/mqhandler"
	"clinicboard/internal/repository"
	"clinicboard/pkg/config"
	"clinicboard/pkg/db"
	"clinicboard/pkg/logger"
	"clinicboard/pkg/mq"
)

func main() {
	cfg, err := config.Load(config.GetConfigEnv(), "config")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting clinicboard worker...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	invitationRepo := repository.NewInvitationRepository(dbConn, log)
	inviteHandler := mqhandler.NewInviteRequestedHandler(invitationRepo, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, "invite.requested.q", mq.RoutingKeyInviteRequested, log)
	if err != nil {
		log.Fatal("Failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(inviteHandler.Handle)

	go func() {
		log.Info("Starting invite.requested consumer...")
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Invite consumer failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down clinicboard worker...")
	consumer.Close()
	log.Info("clinicboard worker shutdown complete")
}
