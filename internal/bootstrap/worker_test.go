package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, event kafka.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireStalePending(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// sliceSource replays messages once, then blocks until ctx is done.
type sliceSource struct {
	messages []kafkago.Message
	errs     []error
}

func (s *sliceSource) Consume(ctx context.Context, handler func(context.Context, kafkago.Message) error) error {
	for _, msg := range s.messages {
		s.errs = append(s.errs, handler(ctx, msg))
	}
	<-ctx.Done()
	return nil
}

func TestWorker_DeliversDecodedEvents(t *testing.T) {
	event := kafka.BookingEvent{Type: kafka.EventBookingCreated, BookingID: "b-1", FieldName: "Court A"}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	source := &sliceSource{messages: []kafkago.Message{{Value: raw}, {Value: []byte("garbage")}}}
	notifier := &MockNotifier{}
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.BookingID == "b-1" && e.FieldName == "Court A"
	})).Return(nil).Once()
	expirer := &MockExpirer{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	NewWorker(source, notifier, expirer, time.Hour, obs.Discard()).Run(ctx)

	notifier.AssertExpectations(t)
	assert.Equal(t, []error{nil, nil}, source.errs)
}

func TestWorker_SweepsOnTick(t *testing.T) {
	expirer := &MockExpirer{}
	expirer.On("ExpireStalePending", mock.Anything).Return([]domain.Booking{{ID: "b-1"}}, nil).Once()
	expirer.On("ExpireStalePending", mock.Anything).Return([]domain.Booking(nil), errors.New("db down"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	NewWorker(&sliceSource{}, &MockNotifier{}, expirer, 10*time.Millisecond, obs.Discard()).Run(ctx)

	assert.GreaterOrEqual(t, len(expirer.Calls), 2)
}

func TestNewWorker_NonPositiveIntervalFallsBackToDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		w := NewWorker(&sliceSource{}, &MockNotifier{}, &MockExpirer{}, interval, obs.Discard())
		assert.Equal(t, DefaultSweepInterval, w.interval)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		assert.NotPanics(t, func() { w.Run(ctx) })
		cancel()
	}
}
