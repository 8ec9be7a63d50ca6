package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port       int  `env:"PORT" envDefault:"3000"`
	IsTestMode bool `env:"TEST_MODE" envDefault:"false"`
	Debug      bool `env:"DEBUG" envDefault:"false"`

	Secret string `env:"SECRET,required"`

	DatabaseConfig

	RedisURL string `env:"REDIS_URL,required"`

	BcryptHasherCost      int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetTokenTTL time.Duration `env:"PASSWORD_RESET_TOKEN_TTL" envDefault:"1h"`
	PasswordResetBaseURL  url.URL       `env:"PASSWORD_RESET_BASE_URL" envDefault:"http://localhost:3000/reset-password"`

	AwsConfig

	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"0"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	SentryDsn string `env:"SENTRY_DSN"`
}

type DatabaseConfig struct {
	PostgresqlURL  string `env:"POSTGRESQL_URL"`
	DBHost         string `env:"DB_HOST"`
	DBPort         int    `env:"DB_PORT" envDefault:"5432"`
	DBName         string `env:"DB_NAME"`
	DBUser         string `env:"DB_USER"`
	DBPassword     string `env:"DB_PASSWORD"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

type AwsConfig struct {
	AwsRegion                  string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey               string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey               string `env:"AWS_SECRET_KEY"`
	EmailSender                string `env:"EMAIL_SENDER" envDefault:"no-reply@medportal.local"`
	PasswordResetEmailTemplate string `env:"PASSWORD_RESET_EMAIL_TEMPLATE" envDefault:"medportal-password-reset"`
}

func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadDatabase reads only the database settings, for tools that do not
// serve HTTP.
func LoadDatabase() (*DatabaseConfig, error) {
	return loadDatabase(env.Options{})
}

func LoadAws() (*AwsConfig, error) {
	cfg := &AwsConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not parse AWS config: %w", err)
	}
	return cfg, nil
}

func loadDatabase(opts env.Options) (*DatabaseConfig, error) {
	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("could not parse database config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SessionTTL < 0 {
		return nil, fmt.Errorf("SESSION_TTL must not be negative")
	}
	if cfg.PasswordResetTokenTTL <= 0 {
		return nil, fmt.Errorf("PASSWORD_RESET_TOKEN_TTL must be positive")
	}
	return cfg, nil
}

func (c *DatabaseConfig) validate() error {
	if c.PostgresqlURL == "" && c.DBHost == "" {
		return fmt.Errorf("POSTGRESQL_URL or DB_HOST must be set")
	}
	return nil
}

// DatabaseURL prefers POSTGRESQL_URL and falls back to the DB_* parts.
func (c *DatabaseConfig) DatabaseURL() string {
	if c.PostgresqlURL != "" {
		return c.PostgresqlURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

func (c *Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
