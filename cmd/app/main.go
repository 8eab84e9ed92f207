package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/fieldbooking/api"
	"github.com/Domenick1991/fieldbooking/config"
	"github.com/Domenick1991/fieldbooking/internal/bootstrap"
	"github.com/Domenick1991/fieldbooking/internal/cache"
	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	"github.com/Domenick1991/fieldbooking/internal/repository"
	"github.com/Domenick1991/fieldbooking/internal/service/booking"
	"github.com/Domenick1991/fieldbooking/internal/service/expenses"
	"github.com/Domenick1991/fieldbooking/internal/service/fields"
	"github.com/Domenick1991/fieldbooking/internal/service/payments"
	"github.com/Domenick1991/fieldbooking/internal/service/reports"
	"github.com/Domenick1991/fieldbooking/internal/service/timeslots"
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
	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("auth.jwt_secret must be set")
	}
	logger := obs.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.Env)
	if err != nil {
		log.Fatalf("init tracer: %v", err)
	}
	defer shutdownTracer(context.Background())

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	hours, err := calendar.ParseHours(cfg.Booking.OperatingHours.Open, cfg.Booking.OperatingHours.Close)
	if err != nil {
		log.Fatalf("operating hours: %v", err)
	}
	zone := calendar.NewZone(cfg.Booking.UTCOffset())

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.FieldsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.BookedHoursCacheTTL)*time.Second)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, continuing with cold cache", "error", err)
	}

	publishTimeout := time.Duration(cfg.Booking.PublishTimeoutSeconds) * time.Second
	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()
	publisher := kafka.NewAsyncPublisher(producer, 1024, publishTimeout, logger)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 2*publishTimeout)
		defer cancel()
		_ = publisher.Close(drainCtx)
	}()

	fieldRepo := repository.NewFieldRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	expenseRepo := repository.NewExpenseRepository(pool)
	timeSlotRepo := repository.NewTimeSlotRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		fieldRepo,
		redisCache,
		publisher,
		logger,
		zone,
		hours,
		domain.NewCancellationPolicy(zone, cfg.Booking.MinCancelLead()),
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPublishTimeout(publishTimeout),
	)
	fieldService := fields.NewFieldService(fieldRepo, bookingRepo, redisCache, logger)
	paymentService := payments.NewPaymentService(transactionRepo, bookingRepo, zone, logger)
	expenseService := expenses.NewExpenseService(expenseRepo, zone, logger)
	timeSlotService := timeslots.NewTimeSlotService(timeSlotRepo, logger)
	reportService := reports.NewReportService(transactionRepo, expenseRepo, zone)

	router := api.NewRouter(cfg, api.NewAuthenticator(cfg.Auth.JWTSecret), logger, api.Handlers{
		Bookings:  api.NewBookingHandler(bookingService),
		Fields:    api.NewFieldHandler(fieldService),
		Payments:  api.NewPaymentHandler(paymentService),
		Expenses:  api.NewExpenseHandler(expenseService),
		TimeSlots: api.NewTimeSlotHandler(timeSlotService),
		Reports:   api.NewReportHandler(reportService),
	})

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router, logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
