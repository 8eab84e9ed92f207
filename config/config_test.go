package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
env: dev
http:
  address: ":9090"
database:
  host: localhost
  port: 5432
  user: booking
  password: from-file
  name: fieldbooking
  ssl_mode: disable
kafka:
  brokers: ["localhost:9092"]
  booking_topic: bookings
  notifications_topic: notifications
booking:
  operating_hours:
    open: "06:00"
    close: "23:00"
telegram:
  chat_ids: ["100", "200"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, "06:00", cfg.Booking.OperatingHours.Open)
	assert.Equal(t, "23:00", cfg.Booking.OperatingHours.Close)
	assert.Equal(t, 7*time.Hour, cfg.Booking.UTCOffset())
	assert.Equal(t, 3*time.Hour, cfg.Booking.MinCancelLead())
	assert.Equal(t, []string{"100", "200"}, cfg.Telegram.ChatIDs)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBaseURL)
	assert.Equal(t, 60, cfg.Booking.BookedHoursCacheTTL)
	assert.Equal(t, 300, cfg.Booking.FieldsCacheTTL)
	assert.Equal(t, 5, cfg.Worker.ExpirationSweepMinutes)
	assert.Equal(t, "host=localhost port=5432 user=booking password=from-file dbname=fieldbooking sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FIELDBOOKING_DATABASE_PASSWORD", "from-env")
	t.Setenv("FIELDBOOKING_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("FIELDBOOKING_TELEGRAM_BOT_TOKEN", "bot-token")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "bot-token", cfg.Telegram.BotToken)
	assert.Equal(t, "booking", cfg.Database.User)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = LoadConfig(writeConfig(t, "http: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadConfig_ExplicitUTCOffsetZeroIsKept(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, bookingYAML+"  utc_offset_hours: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Booking.UTCOffset())

	t.Setenv("FIELDBOOKING_BOOKING_UTC_OFFSET_HOURS", "-3")
	cfg, err = LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, -3*time.Hour, cfg.Booking.UTCOffset())
}

func TestBookingConfig_UTCOffsetUnset(t *testing.T) {
	assert.Equal(t, 7*time.Hour, BookingConfig{}.UTCOffset())
}

func TestLoadConfig_RejectsNonPositiveSettings(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  string
	}{
		{"negative sweep", "worker:\n  expiration_sweep_minutes: -1\n", "worker.expiration_sweep_minutes"},
		{"negative cache ttl", "  booked_hours_cache_ttl_seconds: -5\n", "booking.booked_hours_cache_ttl_seconds"},
		{"negative publish timeout", "  publish_timeout_seconds: -1\n", "booking.publish_timeout_seconds"},
		{"offset out of range", "  utc_offset_hours: 20\n", "booking.utc_offset_hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, bookingYAML+tt.extra))
			require.Error(t, err)
			assert.ErrorContains(t, err, "invalid config")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

// bookingYAML ends inside the booking block so cases can append to it.
const bookingYAML = `
booking:
  operating_hours:
    open: "06:00"
    close: "23:00"
`
