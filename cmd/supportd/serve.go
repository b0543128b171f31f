package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/config"
	"github.com/scootcare/support-platform/internal/database"
	"github.com/scootcare/support-platform/internal/filestore"
	"github.com/scootcare/support-platform/internal/handler"
	"github.com/scootcare/support-platform/internal/nats"
	"github.com/scootcare/support-platform/internal/responder"
	"github.com/scootcare/support-platform/internal/service"
	"github.com/scootcare/support-platform/internal/store"
	"github.com/scootcare/support-platform/pkg/logger"
	"github.com/scootcare/support-platform/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "scootcare-support", cfg.TracingEndpoint)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer tracing.Shutdown(context.Background(), tp)
	}

	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.MigrateUp(db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	log.Info("database ready", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	natsClient, err := nats.Connect(ctx, nats.Config{URL: cfg.NATSURL, Token: cfg.NATSToken}, log)
	if err != nil {
		return fmt.Errorf("connect NATS: %w", err)
	}
	defer natsClient.Close()

	streams := nats.NewStreamManager(natsClient)
	if err := streams.EnsureStream(ctx); err != nil {
		return fmt.Errorf("ensure stream: %w", err)
	}

	files, err := filestore.New(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("init file storage: %w", err)
	}

	sessions := store.NewSessionStore(db)
	knowledge := store.NewKnowledgeStore(db)
	tickets := store.NewTicketStore(db)
	orders := store.NewOrderStore(db)
	users := store.NewUserStore(db)

	registry := responder.NewRegistry()
	registry.Register(responder.ResolverOrderTracking, responder.NewOrderTrackingResolver(orders))
	dispatcher := responder.NewDispatcher(registry, log)

	chat := service.NewChatService(sessions, knowledge, dispatcher, streams, log, cfg.SessionTTL)
	escalation := service.NewEscalationService(sessions, tickets, streams, log)
	knowledgeSvc := service.NewKnowledgeService(knowledge, log)
	auth := service.NewAuthService(users, log, cfg.JWTSecret, cfg.JWTExpiration, cfg.OTPTTL, cfg.OTPDevLog)

	router := handler.NewRouter(cfg, log, handler.Handlers{
		Auth:      handler.NewAuthHandler(auth),
		Knowledge: handler.NewKnowledgeHandler(knowledgeSvc),
		Sessions:  handler.NewSessionHandler(chat, escalation),
		Tickets:   handler.NewTicketHandler(escalation, chat),
		Orders:    handler.NewOrderHandler(orders),
		Uploads:   handler.NewUploadHandler(files),
		Stream:    handler.NewStreamHandler(chat, streams, log),
		Health:    handler.NewHealthHandler(natsClient),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
