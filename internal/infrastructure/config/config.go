package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens. Read once here and passed into the
	// session issuer's constructor; nothing in the request path consults the
	// environment.
	JWTSecret  string        `env:"JWT_SECRET, required"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=720h"`

	VerifyTokenTTL time.Duration `env:"VERIFY_TOKEN_TTL, default=24h"`
	ResetTokenTTL  time.Duration `env:"RESET_TOKEN_TTL,  default=1h"`

	// LinkBaseURL is the frontend origin embedded in verification and
	// password-reset links.
	LinkBaseURL   string `env:"LINK_BASE_URL, default=http://localhost:5173"`
	NotifyWorkers int    `env:"NOTIFY_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig configures the outbound-mail relay. An empty host selects the
// log-only notifier.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@localhost"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
