package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/fieldbooking/config"
	"github.com/Domenick1991/fieldbooking/internal/bootstrap"
	"github.com/Domenick1991/fieldbooking/internal/cache"
	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
	"github.com/Domenick1991/fieldbooking/internal/notify"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/Domenick1991/fieldbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := obs.NewLogger(cfg.Env).With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	hours, err := calendar.ParseHours(cfg.Booking.OperatingHours.Open, cfg.Booking.OperatingHours.Close)
	if err != nil {
		log.Fatalf("operating hours: %v", err)
	}
	zone := calendar.NewZone(cfg.Booking.UTCOffset())

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.FieldsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.BookedHoursCacheTTL)*time.Second)

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		repository.NewFieldRepository(pool),
		redisCache,
		producer,
		logger,
		zone,
		hours,
		domain.NewCancellationPolicy(zone, cfg.Booking.MinCancelLead()),
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := notify.NewSender(notify.TelegramConfig{
		BotToken:     cfg.Telegram.BotToken,
		ChatIDs:      cfg.Telegram.ChatIDs,
		DashboardURL: cfg.Telegram.DashboardURL,
		APIBaseURL:   cfg.Telegram.APIBaseURL,
	}, &http.Client{Timeout: 10 * time.Second}, logger)
	if !sender.Enabled() {
		logger.Warn("telegram is not configured, notifications will be skipped")
	}

	worker := bootstrap.NewWorker(consumer, sender, bookingService,
		time.Duration(cfg.Worker.ExpirationSweepMinutes)*time.Minute, logger)

	logger.Info("worker started", "topic", cfg.Kafka.NotificationsTopic)
	worker.Run(ctx)
	logger.Info("worker stopped")
}
