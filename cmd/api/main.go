package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/haarwerk/booking-api/cmd/mainconfig"
	"github.com/haarwerk/booking-api/internal/api/router"
	"github.com/haarwerk/booking-api/internal/blackouts"
	"github.com/haarwerk/booking-api/internal/bookings"
	appconfig "github.com/haarwerk/booking-api/internal/config"
	"github.com/haarwerk/booking-api/internal/customers"
	"github.com/haarwerk/booking-api/internal/loyalty"
	"github.com/haarwerk/booking-api/internal/notify"
	"github.com/haarwerk/booking-api/internal/observability/metrics"
	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	redisClient := newRedisClient(cfg)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Repositories
	bookingRepo := bookings.NewRepository(dynamoClient, cfg.BookingsTable, logger)
	blackoutRepo := blackouts.NewRepository(dynamoClient, cfg.BlackoutsTable, loc, logger)
	treatmentRepo := treatments.NewRepository(dynamoClient, cfg.TreatmentsTable)
	customerRepo := customers.NewRepository(dynamoClient, cfg.CustomersTable, loc)

	// Engines and services
	engine := schedule.NewEngine(businessHoursFromConfig(cfg), bookingRepo, blackoutRepo, loc, schedule.EngineOptions{
		BlackoutTimeout: cfg.BlackoutFetchTimeout,
		Metrics:         bookingMetrics,
		Logger:          logger,
	})
	grantGuard := loyalty.NewGrantGuard(redisClient, cfg.LoyaltyGrantWindowTTL)
	loyaltySvc := loyalty.NewService(bookingRepo, grantGuard, cfg.LoyaltyWindowMonths, logger)
	confirmer := notify.NewConfirmer(buildEmailSender(cfg, awsCfg, logger), loc, logger)
	bookingSvc := bookings.NewService(bookingRepo, engine, treatmentRepo, customerRepo, loyaltySvc, loc, bookings.ServiceOptions{
		Notifier:    confirmer,
		Metrics:     bookingMetrics,
		Logger:      logger,
		LoyaltyPct:  cfg.LoyaltyDiscountPct,
		BirthdayPct: cfg.BirthdayDiscountPct,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Availability:       schedule.NewHandler(engine, logger),
		Treatments:         treatments.NewHandler(treatmentRepo, logger),
		Bookings:           bookings.NewHandler(bookingSvc, logger),
		Customers:          customers.NewHandler(customerRepo, loyaltySvc, loc, logger),
		Blackouts:          blackouts.NewHandler(blackoutRepo, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
		BookingRateLimit:   2,
		BookingRateBurst:   5,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// businessHoursFromConfig maps the configured opening hours onto the engine
// grid.
func businessHoursFromConfig(cfg *appconfig.Config) schedule.BusinessHours {
	return schedule.BusinessHours{
		Open:   schedule.Minutes(cfg.OpenMinutes),
		Close:  schedule.Minutes(cfg.CloseMinutes),
		Step:   schedule.Minutes(cfg.SlotMinutes),
		Closed: time.Weekday(cfg.ClosedWeekday),
	}
}

// buildEmailSender selects the configured mail backend, falling back to the
// logging stub when no credentials are present.
func buildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	logger.Warn("no email provider configured, confirmations will be logged only")
	return notify.NewStubEmailSender(logger)
}

func newRedisClient(cfg *appconfig.Config) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
