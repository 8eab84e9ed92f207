package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

type MessageSource interface {
	Consume(ctx context.Context, handler func(context.Context, kafkago.Message) error) error
}

type Notifier interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

type Expirer interface {
	ExpireStalePending(ctx context.Context) ([]domain.Booking, error)
}

// Worker delivers booking notifications and periodically expires stale
// PENDING bookings.
type Worker struct {
	source   MessageSource
	notifier Notifier
	expirer  Expirer
	interval time.Duration
	logger   *slog.Logger
}

// DefaultSweepInterval replaces a non-positive sweep interval.
const DefaultSweepInterval = 5 * time.Minute

func NewWorker(source MessageSource, notifier Notifier, expirer Expirer, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		logger.Warn("invalid sweep interval, using default", "interval", interval, "default", DefaultSweepInterval)
		interval = DefaultSweepInterval
	}
	return &Worker{source: source, notifier: notifier, expirer: expirer, interval: interval, logger: logger}
}

// Run blocks until ctx is canceled and both loops have returned.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := w.source.Consume(ctx, w.handle); err != nil {
			w.logger.Error("consumer stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		w.sweepLoop(ctx)
	}()
	wg.Wait()
}

func (w *Worker) handle(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.DecodeBookingEvent(msg.Value)
	if err != nil {
		w.logger.Warn("dropping undecodable event", "offset", msg.Offset, "error", err)
		return nil
	}
	return w.notifier.Send(ctx, event)
}

func (w *Worker) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	expired, err := w.expirer.ExpireStalePending(ctx)
	if err != nil {
		w.logger.Error("expire bookings failed", "error", err)
		return
	}
	if len(expired) > 0 {
		w.logger.Info("expired stale bookings", "count", len(expired))
	}
}
