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

	"findmyspace/internal/api"
	"findmyspace/internal/auth"
	"findmyspace/internal/config"
	"findmyspace/internal/db"
	"findmyspace/internal/logging"
	"findmyspace/internal/repository"
	"findmyspace/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		logger.Fatal("failed to migrate DB", zap.Error(err))
	}

	var mailer service.Mailer = service.NewLogNotifier(logger)
	if cfg.EmailEnabled() {
		mailer = service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, logger)
	}
	var sms service.SMSSender = service.NewLogNotifier(logger)
	if cfg.SMSEnabled() {
		sms = service.NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	}
	sender := service.NewSenderService(mailer, sms, logger)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiration)

	authSvc := service.NewAuthService(repository.NewUsuarioRepository(conn), tokens, sender, cfg.AppBaseURL, logger)
	espacioSvc := service.NewEspacioService(repository.NewEspacioRepository(conn), logger)
	vehiculoSvc := service.NewVehiculoService(repository.NewVehiculoRepository(conn), logger)
	statsSvc := service.NewEstadisticasService(repository.NewEstadisticasRepository(conn))

	jobs := service.NewJobService(repository.NewJobRepository(conn), logger)
	scheduler := cron.New()
	if err := jobs.Register(scheduler, cfg.TokenPurgeSchedule); err != nil {
		logger.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	router := api.NewRouter(api.Handlers{
		Auth:      api.NewAuthHandler(authSvc, logger),
		Espacios:  api.NewEspacioHandler(espacioSvc, logger),
		Vehiculos: api.NewVehiculoHandler(vehiculoSvc, statsSvc, logger),
	}, tokens, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
