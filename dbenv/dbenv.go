// Package dbenv loads Postgres connection settings from the environment,
// optionally sourced from a .env file, and opens gorm sessions from them.
package dbenv

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Alp4ka/gobatcher/gormlog"
)

// Environment variables consulted by FromEnv.
const (
	EnvHost     = "POSTGRES_HOST"
	EnvPort     = "POSTGRES_PORT"
	EnvUser     = "POSTGRES_USER"
	EnvPassword = "POSTGRES_PW"
	EnvDatabase = "POSTGRES_DB"
	EnvSSLMode  = "POSTGRES_SSLMODE"
)

// Local development defaults used when a variable is unset.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultUser     = "postgres"
	DefaultDatabase = "postgres"
	DefaultSSLMode  = "disable"
)

// Config holds the connection settings for a Postgres database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Load reads the given .env files into the process environment without
// overriding variables that are already set. With no arguments it loads
// ".env" from the working directory; a missing default file is not an error.
func Load(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && len(files) == 0 && os.IsNotExist(err) {
		return nil
	}

	return err
}

// FromEnv builds a Config from the POSTGRES_* environment variables, falling
// back to local development defaults for everything but the password.
func FromEnv() (Config, error) {
	cfg := Config{
		Host:     envOr(EnvHost, DefaultHost),
		Port:     DefaultPort,
		User:     envOr(EnvUser, DefaultUser),
		Password: os.Getenv(EnvPassword),
		Database: envOr(EnvDatabase, DefaultDatabase),
		SSLMode:  envOr(EnvSSLMode, DefaultSSLMode),
	}

	if raw := os.Getenv(EnvPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s value '%s': %w", EnvPort, raw, err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

// DSN renders the keyword/value connection string understood by the Postgres
// driver.
func (c Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode)
	if c.Password != "" {
		dsn += " password=" + c.Password
	}

	return dsn
}

// Option customizes the session opened by Open.
type Option func(*openSettings)

type openSettings struct {
	log        zerolog.Logger
	gormConfig *gorm.Config
}

// WithLogger routes the session's query log through the given zerolog
// logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *openSettings) {
		s.log = log
	}
}

// WithGormConfig replaces the default gorm configuration. A logger already
// present in the config wins over WithLogger.
func WithGormConfig(cfg *gorm.Config) Option {
	return func(s *openSettings) {
		if cfg != nil {
			s.gormConfig = cfg
		}
	}
}

// Open connects to the configured Postgres database. Query logging goes
// through the gormlog adapter unless the gorm config carries its own logger.
func Open(cfg Config, opts ...Option) (*gorm.DB, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("database user is empty, set %s or Config.User", EnvUser)
	}

	settings := openSettings{
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger(),
		gormConfig: &gorm.Config{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	if settings.gormConfig.Logger == nil {
		settings.gormConfig.Logger = gormlog.New(settings.log)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), settings.gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection to %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return db, nil
}
