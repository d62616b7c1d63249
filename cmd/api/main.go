package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/config"
	"github.com/xavierca1/clinitech/internal/infra/database"
	"github.com/xavierca1/clinitech/internal/infra/http/handlers"
	"github.com/xavierca1/clinitech/internal/infra/integration/whatsapp"
	"github.com/xavierca1/clinitech/internal/infra/logger"
	"github.com/xavierca1/clinitech/internal/infra/mail"
	"github.com/xavierca1/clinitech/internal/infra/queue"
	"github.com/xavierca1/clinitech/internal/infra/storage"
	"github.com/xavierca1/clinitech/internal/infra/worker"
	"github.com/xavierca1/clinitech/internal/usecase"
)

func main() {
	cfg := config.LoadConfig()

	zlog, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.AppName)
	if err != nil {
		log.Fatalf("falha ao criar logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		zlog.Fatal("falha ao abrir storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer store.Close()

	// Sem RABBITMQ_URL as notificações só vão para o log.
	var publisher usecase.NotificationPublisher = queue.NewNoopProducer(zlog)
	var broker handlers.BrokerStatus
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zlog.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ

		waClient := whatsapp.NewClient(cfg.WhatsAppBaseURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneID, zlog)
		mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
		notificationWorker := queue.NewWorker(rabbitMQ.Ch, waClient, mailSender, cfg.WhatsAppCancelTemplate, zlog)
		go func() {
			if err := notificationWorker.Start(ctx); err != nil {
				zlog.Error("worker de notificações parou", zap.Error(err))
			}
		}()
	}

	a := newApp(appDeps{
		Store:             store,
		StorageDriver:     cfg.StorageDriver,
		Publisher:         publisher,
		Broker:            broker,
		RegistrationToken: cfg.DoctorRegistrationToken,
		Logger:            zlog,
	})
	defer a.close()

	examWorker := worker.NewExamStatusWorker(a.examRepo, cfg.ExamWorkerInterval, zlog)
	go examWorker.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newRouter(a, cfg.CORSOrigins, zlog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("servidor iniciado",
			zap.String("port", cfg.AppPort),
			zap.String("env", cfg.AppEnv),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("servidor parou", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("desligando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("erro no shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "", "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		s, err := storage.ConnectRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := storage.NewPostgresStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconhecido: %q", cfg.StorageDriver)
	}
}
