package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// In all cases the defaults target the docker compose setup
	PostgresAddress  string `envconfig:"POSTGRES_ADDRESS" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5433"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"postgres"`
	PostgresUsername string `envconfig:"POSTGRES_USERNAME" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"testpassword"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"9446"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret   string `envconfig:"JWT_SECRET"`
	JWTAudience string `envconfig:"JWT_AUDIENCE" default:"authenticated"`
	IPHashSalt  string `envconfig:"IP_HASH_SALT" default:"default-salt"`

	BaseCurrency    string        `envconfig:"BASE_CURRENCY" default:"INR"`
	ExchangeRateURL string        `envconfig:"EXCHANGE_RATE_URL" default:"https://api.exchangerate-api.com/v4/latest"`
	CoinGeckoURL    string        `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`
	USDFallbackRate float64       `envconfig:"USD_FALLBACK_RATE" default:"83"`

	OperatorWorkers int `envconfig:"OPERATOR_WORKERS" default:"4"`
}

// ProcessEnvironmentVariables reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func ProcessEnvironmentVariables(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("envconfig: %w", err)
	}

	return &env, nil
}

// PostgresURL builds the lib/pq connection string.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresAddress, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Validate checks the settings that are only required when serving requests.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.BaseCurrency == "" {
		return errors.New("BASE_CURRENCY must not be empty")
	}
	if c.OperatorWorkers < 1 {
		return fmt.Errorf("OPERATOR_WORKERS must be positive, got %d", c.OperatorWorkers)
	}
	return nil
}
