package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"

	"github.com/granohq/accessd/internal/entity"
)

type Config struct {
	HTTPPort         int    `env:"HTTP_PORT"           envDefault:"8080"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS"  envDefault:"10"`
	LogLevel         string `env:"LOG_LEVEL"           envDefault:"info"`

	JWT       JWTConfig
	Directory DirectoryConfig

	KafkaBrokers       []string `env:"KAFKA_BROKERS"        envSeparator:","`
	KafkaSecurityTopic string   `env:"KAFKA_SECURITY_TOPIC" envDefault:"security-events"`

	// TLS
	ServerCert string `env:"TLS_SERVER_CERT"`
	ServerKey  string `env:"TLS_SERVER_KEY"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL"    envDefault:"24h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"accessd"`
}

type DirectoryConfig struct {
	// ServiceURL switches the directory reader to a remote user service.
	// Empty means the local database is the directory.
	ServiceURL    string        `env:"DIRECTORY_SERVICE_URL"`
	Timeout       time.Duration `env:"DIRECTORY_TIMEOUT"        envDefault:"5s"`
	RetryAttempts int           `env:"DIRECTORY_RETRY_ATTEMPTS" envDefault:"3"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	// A missing secret is fatal here, at startup, never per-request.
	if c.JWT.Secret == "" {
		return Config{}, entity.ErrMissingSecret
	}

	if c.ServerCert != "" {
		if _, err := os.Stat(c.ServerCert); os.IsNotExist(err) {
			return Config{}, fmt.Errorf("missing TLS file for TLS_SERVER_CERT: %s", c.ServerCert)
		}
	}

	if c.ServerKey != "" {
		if _, err := os.Stat(c.ServerKey); os.IsNotExist(err) {
			return Config{}, fmt.Errorf("missing TLS file for TLS_SERVER_KEY: %s", c.ServerKey)
		}
	}

	return c, nil
}
