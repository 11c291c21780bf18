package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/neoncare/neoncare-platform/internal/api/router"
	"github.com/neoncare/neoncare-platform/internal/auth"
	"github.com/neoncare/neoncare-platform/internal/bookings"
	appconfig "github.com/neoncare/neoncare-platform/internal/config"
	"github.com/neoncare/neoncare-platform/internal/notify"
	"github.com/neoncare/neoncare-platform/internal/observability/metrics"
	"github.com/neoncare/neoncare-platform/internal/payments"
	"github.com/neoncare/neoncare-platform/internal/profiles"
	"github.com/neoncare/neoncare-platform/internal/tips"
	"github.com/neoncare/neoncare-platform/internal/usage"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting neoncare API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create db pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, tip quota disabled", "error", err, "addr", cfg.RedisAddr)
		}
		defer func() { _ = rdb.Close() }()
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	var email notify.EmailSender
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		email = sender
	} else {
		logger.Warn("SENDGRID_API_KEY not set, using stub email sender")
		email = notify.NewStubEmailSender(logger)
	}

	// LLM providers: Groq primary, Gemini fallback.
	var primary, fallback tips.LLMClient
	if groq := tips.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqMaxTokens, logger); groq != nil {
		primary = groq
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := tips.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini client unavailable", "error", err)
		} else {
			fallback = gemini
			defer func() { _ = gemini.Close() }()
		}
	}
	if primary == nil && fallback == nil {
		logger.Error("no LLM provider configured, set GROQ_API_KEY or GEMINI_API_KEY")
		os.Exit(1)
	}
	llm := tips.NewFallbackClient(primary, fallback, logger)

	profilesRepo := profiles.NewRepository(pool)
	limiter := usage.NewLimiter(rdb, cfg.FreeTipsPerDay, logger)

	authSvc := auth.NewService(auth.NewRepository(pool), email, auth.Config{
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		SiteURL:       cfg.SiteURL,
	}, logger)
	bookingsSvc := bookings.NewService(bookings.NewRepository(pool), email, m, logger)
	tipsSvc := tips.NewService(llm, tips.NewRepository(pool), profilesRepo, limiter, m, logger)

	paystackClient := payments.NewPaystackClient(cfg.PaystackSecretKey, cfg.SiteURL, logger)
	intasendClient := payments.NewIntaSendClient(cfg.IntaSendSecretKey, cfg.IntaSendPublishableKey, cfg.SiteURL, logger)
	paymentsSvc := payments.NewService(paystackClient, intasendClient, payments.NewRepository(pool), profilesRepo, m, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		AuthHandler:        auth.NewHandler(authSvc, profilesRepo, logger),
		BookingsHandler:    bookings.NewHandler(bookingsSvc, logger),
		TipsHandler:        tips.NewHandler(tipsSvc, logger),
		PaymentsHandler:    payments.NewHandler(paymentsSvc, logger),
		NotifyHandler:      notify.NewHandler(email, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSOrigins,
		JWTSecret:          cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
