package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	LogPretty   bool   `env:"LOG_PRETTY,   default=false"`
	StoreDriver string `env:"STORE_DRIVER, default=postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	CORSOrigins []string `env:"CORS_ORIGIN, default=*"`
	TrustProxy  bool     `env:"TRUST_PROXY, default=true"`

	// Grace period, in minutes, during which a jugada can be cancelled.
	CancelWindowMinutes int `env:"ANULACION_MINUTOS, default=10"`
	EventWorkers        int `env:"EVENT_WORKERS,     default=4"`

	Auth      AuthConfig
	RateLimit RateLimitConfig
	Geofence  GeofenceConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET"`
	Audience  string        `env:"AUTH_JWT_AUDIENCE, default=authenticated"`
	Issuer    string        `env:"AUTH_JWT_ISSUER,   default=bancas-api"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL,    default=24h"`
}

type RateLimitConfig struct {
	WindowMS int `env:"RATE_LIMIT_WINDOW_MS, default=60000"`
	Max      int `env:"RATE_LIMIT_MAX,       default=100"`
}

func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

type GeofenceConfig struct {
	Country string `env:"GEOFENCE_COUNTRY, default=DO"`
	Enforce bool   `env:"GEOFENCE_ENFORCE, default=false"`
}

// MongoConfig enables the audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=bancas"`
}

// RedisConfig enables shared rate limiting and token revocation when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// KafkaConfig enables the event stream when Brokers is set.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC_JUGADAS, default=jugadas.lifecycle"`
}

// CancelWindow returns the configured grace period.
func (c *Config) CancelWindow() time.Duration {
	return time.Duration(c.CancelWindowMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMemory, c.StoreDriver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if c.CancelWindowMinutes <= 0 {
		errs = append(errs, errors.New("ANULACION_MINUTOS must be positive"))
	}
	if c.RateLimit.WindowMS <= 0 || c.RateLimit.Max <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW_MS and RATE_LIMIT_MAX must be positive"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC_JUGADAS is required when KAFKA_BROKERS is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
