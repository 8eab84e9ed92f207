package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrQueueFull       = errors.New("publish queue full")
	ErrPublisherClosed = errors.New("publisher closed")
)

// Publisher is satisfied by Producer.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type queuedMessage struct {
	topic   string
	key     string
	payload any
}

// AsyncPublisher takes publishing off the caller's path. Publish only
// enqueues; a single goroutine drains the queue in order, giving each write
// its own timeout. A full queue drops the message with ErrQueueFull.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan queuedMessage
	done   chan struct{}
}

func NewAsyncPublisher(next Publisher, buffer int, timeout time.Duration, logger *slog.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan queuedMessage, buffer),
		done:    make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish never blocks on the broker. ctx is not used for the write itself,
// which outlives the request that triggered it.
func (p *AsyncPublisher) Publish(_ context.Context, topic, key string, payload any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- queuedMessage{topic: topic, key: key, payload: payload}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) drain() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.next.Publish(ctx, msg.topic, msg.key, msg.payload)
		cancel()
		if err != nil {
			p.logger.Warn("async publish failed", "topic", msg.topic, "key", msg.key, "error", err)
		}
	}
}

// Close stops accepting messages and waits for the queue to drain or for ctx
// to end, whichever comes first.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.logger.Warn("publish queue not drained before shutdown", "pending", len(p.queue))
		return ctx.Err()
	}
}
