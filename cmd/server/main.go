package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/email"
	"github.com/clinicore/clinicore/internal/handler"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/middleware"
	"github.com/clinicore/clinicore/internal/repository"
	"github.com/clinicore/clinicore/internal/router"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/clinicore/clinicore/internal/session"
	"github.com/clinicore/clinicore/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", "0.1.0").Msg("starting Clinicore server")

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("connected to Redis")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	// Session store backs the sign-in audit dedup marker
	sessions := session.NewRedisStore(rdb, cfg.Session.IdleTimeout)

	// Audit sink: structured log plus durable sign-in storage
	sink := audit.NewMultiSink(audit.NewLogSink(log), audit.NewStoreSink(auditRepo))

	// Live event broker for audit observers and notification nudges
	broker := ws.NewBroker(log)

	// Initialize token service
	tokenSvc, err := auth.NewTokenService(cfg.Auth.Tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Email sender (optional)
	var sender email.Sender
	if cfg.Email.Enabled {
		gmailSender, err := email.NewGmailSender(context.Background(), email.GmailConfig{
			CredentialsJSON: cfg.Email.Gmail.CredentialsJSON,
			SenderAddress:   cfg.Email.Gmail.SenderAddress,
			SenderName:      cfg.Email.Gmail.SenderName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize email sender")
		}
		sender = gmailSender
		log.Info().Msg("email sender initialized")
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tokenSvc, sessions, log)
	notificationSvc := service.NewNotificationService(notificationRepo, broker, sender, log)
	messageSvc := service.NewMessageService(messageRepo, userRepo, notificationSvc, log)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, userRepo, notificationSvc, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, userRepo, notificationSvc, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize handlers and middleware
	h := handler.New(db, rdb, log, cfg, broker, authSvc, notificationSvc, messageSvc, attachmentSvc, appointmentSvc, auditSvc)
	mw := middleware.New(rdb, log, cfg, sink, sessions, broker, tokenSvc)

	// Set up router
	r := router.New(h, mw)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
