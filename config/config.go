package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. FIELDBOOKING_DATABASE_PASSWORD.
const EnvPrefix = "fieldbooking"

type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic" split_words:"true"`
	NotificationsTopic string   `yaml:"notifications_topic" split_words:"true"`
	GroupID            string   `yaml:"group_id" split_words:"true"`
}

type OperatingHours struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

type BookingConfig struct {
	// UTCOffsetHours is a pointer so an explicit 0 (UTC) survives defaulting.
	UTCOffsetHours        *int           `yaml:"utc_offset_hours" split_words:"true"`
	MinCancelLeadMinutes  int            `yaml:"min_cancel_lead_minutes" split_words:"true"`
	OperatingHours        OperatingHours `yaml:"operating_hours" split_words:"true"`
	BookedHoursCacheTTL   int            `yaml:"booked_hours_cache_ttl_seconds" envconfig:"booked_hours_cache_ttl_seconds"`
	FieldsCacheTTL        int            `yaml:"fields_cache_ttl_seconds" envconfig:"fields_cache_ttl_seconds"`
	PublishTimeoutSeconds int            `yaml:"publish_timeout_seconds" split_words:"true"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" split_words:"true"`
}

type TelegramConfig struct {
	BotToken     string   `yaml:"bot_token" split_words:"true"`
	ChatIDs      []string `yaml:"chat_ids" envconfig:"chat_ids"`
	DashboardURL string   `yaml:"dashboard_url" split_words:"true"`
	APIBaseURL   string   `yaml:"api_base_url" split_words:"true"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name" split_words:"true"`
}

const defaultUTCOffsetHours = 7

func (b BookingConfig) UTCOffset() time.Duration {
	if b.UTCOffsetHours == nil {
		return defaultUTCOffsetHours * time.Hour
	}
	return time.Duration(*b.UTCOffsetHours) * time.Hour
}

func (b BookingConfig) MinCancelLead() time.Duration {
	return time.Duration(b.MinCancelLeadMinutes) * time.Minute
}

// LoadConfig reads the YAML file at path, applies FIELDBOOKING_* environment
// overrides and fills defaults for anything still unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Booking.UTCOffsetHours == nil {
		offset := defaultUTCOffsetHours
		c.Booking.UTCOffsetHours = &offset
	}
	if c.Booking.MinCancelLeadMinutes == 0 {
		c.Booking.MinCancelLeadMinutes = 180
	}
	if c.Booking.OperatingHours.Open == "" {
		c.Booking.OperatingHours.Open = "08:00"
	}
	if c.Booking.OperatingHours.Close == "" {
		c.Booking.OperatingHours.Close = "22:00"
	}
	if c.Booking.BookedHoursCacheTTL == 0 {
		c.Booking.BookedHoursCacheTTL = 60
	}
	if c.Booking.FieldsCacheTTL == 0 {
		c.Booking.FieldsCacheTTL = 300
	}
	if c.Booking.PublishTimeoutSeconds == 0 {
		c.Booking.PublishTimeoutSeconds = 5
	}
	if c.Worker.ExpirationSweepMinutes == 0 {
		c.Worker.ExpirationSweepMinutes = 5
	}
	if c.Telegram.APIBaseURL == "" {
		c.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "fieldbooking"
	}
}

// validate runs after defaults, so zero means the field was left unset and
// anything still non-positive was configured that way.
func (c *Config) validate() error {
	if offset := *c.Booking.UTCOffsetHours; offset < -12 || offset > 14 {
		return fmt.Errorf("booking.utc_offset_hours %d out of range [-12, 14]", offset)
	}
	positive := []struct {
		name  string
		value int
	}{
		{"booking.min_cancel_lead_minutes", c.Booking.MinCancelLeadMinutes},
		{"booking.booked_hours_cache_ttl_seconds", c.Booking.BookedHoursCacheTTL},
		{"booking.fields_cache_ttl_seconds", c.Booking.FieldsCacheTTL},
		{"booking.publish_timeout_seconds", c.Booking.PublishTimeoutSeconds},
		{"worker.expiration_sweep_minutes", c.Worker.ExpirationSweepMinutes},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	return nil
}
