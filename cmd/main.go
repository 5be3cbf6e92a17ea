package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infinity-hospitality/event-system/brackets"
	"github.com/infinity-hospitality/event-system/config"
	"github.com/infinity-hospitality/event-system/db"
	_ "github.com/infinity-hospitality/event-system/docs"
	"github.com/infinity-hospitality/event-system/handlers"
	"github.com/infinity-hospitality/event-system/middleware"
	"github.com/infinity-hospitality/event-system/repositories"
	api "github.com/infinity-hospitality/event-system/routes"
	"github.com/infinity-hospitality/event-system/seed"
	"github.com/infinity-hospitality/event-system/services"
	"github.com/infinity-hospitality/event-system/storage"
)

const schedulerInterval = 30 * time.Minute // как часто отклоняются зависшие заявки

// @title Infinity Hospitality Event API
// @version 1.0
// @description Bookings, staffing and knockout tournaments for Infinity Hospitality events.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.AutoSchema {
		if err := db.ApplySchema(ctx, dbConn); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	regRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	bookingRepo := repositories.NewPostgresBookingRepository(dbConn)
	jobRepo := repositories.NewPostgresJobApplicationRepository(dbConn)
	transactor := repositories.NewSQLTransactor(dbConn, logger)
	logger.Info("repositories initialized")

	if cfg.SeedFile != "" {
		data, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		res, err := seed.Apply(ctx, data, userRepo, tournamentRepo, logger)
		if err != nil {
			return fmt.Errorf("apply seed data: %w", err)
		}
		logger.Info("seed data applied", slog.Int("users", res.Users), slog.Int("tournaments", res.Tournaments))
	}

	// Инициализация загрузчика файлов (Cloudflare R2), если он настроен
	var uploader storage.FileUploader
	if cfg.StorageEnabled() {
		r2, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		uploader = r2
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage is not configured, image uploads are disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket hub started")

	var mailer services.Mailer
	if cfg.SMTPEnabled() {
		mailer = services.NewEmailService(services.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
		})
	} else {
		logger.Warn("SMTP is not configured, outgoing mail is only logged")
		mailer = services.NewLogMailer(logger)
	}

	notifier := services.NewNotificationDispatcher(services.NotifierConfig{
		From:       cfg.MailFrom,
		AdminEmail: cfg.AdminEmail,
		Timeout:    cfg.NotifyTimeout,
	}, mailer, userRepo, jobRepo, wsHub, logger)
	// письма, отправленные до остановки сервера, должны уйти
	defer notifier.Wait()

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, regRepo, fixtureRepo, uploader, logger)
	registrationService := services.NewRegistrationService(transactor, regRepo, tournamentRepo)
	bracketService := services.NewBracketService(
		transactor,
		tournamentRepo,
		services.NewFixtureStore(fixtureRepo, tournamentRepo, regRepo),
		services.NewRegistrationLedger(regRepo),
		brackets.NewSingleEliminationGenerator(),
		notifier,
		logger,
	)
	bookingService := services.NewBookingService(bookingRepo, notifier, logger)
	jobService := services.NewJobApplicationService(jobRepo, notifier)
	inquiryService := services.NewInquiryService(notifier)
	recycleBinService := services.NewRecycleBinService(transactor, tournamentRepo, regRepo, bookingRepo, jobRepo)
	logger.Info("services initialized")

	// Запуск планировщика: заявки без ответа дольше PendingExpiry отклоняются
	go runScheduler(ctx, logger, bookingService)

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament:   handlers.NewTournamentHandler(tournamentService, bracketService),
		Fixture:      handlers.NewFixtureHandler(bracketService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Booking:      handlers.NewBookingHandler(bookingService),
		Job:          handlers.NewJobHandler(jobService),
		Inquiry:      handlers.NewInquiryHandler(inquiryService),
		Admin:        handlers.NewAdminHandler(recycleBinService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthLimiter: middleware.NewIPRateLimiter(ctx, middleware.RateLimitConfig{
			RPS:   cfg.AuthRateRPS,
			Burst: cfg.AuthRateBurst,
		}),
	})
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

func runScheduler(ctx context.Context, logger *slog.Logger, bookings services.BookingService) {
	ticker := time.NewTicker(schedulerInterval)
	defer ticker.Stop()
	logger.Info("booking expiry scheduler started", slog.Duration("interval", schedulerInterval))

	tick := func() {
		n, err := bookings.RejectStalePending(ctx)
		if err != nil {
			logger.Error("scheduler: rejecting stale bookings failed", slog.Any("error", err))
			return
		}
		if n > 0 {
			logger.Info("scheduler: stale bookings rejected", slog.Int("count", n))
		}
	}

	tick()
	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			return
		}
	}
}
