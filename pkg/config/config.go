package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var cfg *Config

type Server struct {
	ListenAddress     string        `env:"LISTEN_ADDRESS" envDefault:":8080"`
	DebugAddress      string        `env:"DEBUG_ADDRESS" envDefault:":8081"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	HookTimeout       time.Duration `env:"HOOK_TIMEOUT" envDefault:"5s"`
}

type Products struct {
	Url          string        `env:"PRODUCTS_URL"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	CacheTTL     time.Duration `env:"PRODUCTS_CACHE_TTL" envDefault:"5m"`
	CatalogFile  string        `env:"FACET_CATALOG_FILE"`
}

type Redis struct {
	Url      string `env:"REDIS_URL"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Rabbit struct {
	Url string `env:"RABBIT_URL"`
}

type Store struct {
	Country      string  `env:"COUNTRY" envDefault:"se"`
	CurrencyRate float64 `env:"CURRENCY_RATE" envDefault:"1"`
}

type Sessions struct {
	TTL            time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	RecentSearches int           `env:"RECENT_SEARCHES" envDefault:"10"`
}

type Logger struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	AsJSON bool   `env:"LOG_JSON" envDefault:"false"`
}

type Config struct {
	Server   Server
	Products Products
	Redis    Redis
	Rabbit   Rabbit
	Store    Store
	Sessions Sessions
	Logger   Logger
}

// Parse reads the configuration from the environment without touching the global.
func Parse() (*Config, error) {
	const op = "config.Parse"
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c.Sessions.TTL < 0 {
		return nil, fmt.Errorf("%s: SESSION_TTL must not be negative", op)
	}
	return &c, nil
}

// Load parses the environment, reading .env files first when APP_ENV=local.
func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	c, err := Parse()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	cfg = c
	return nil
}

func C() *Config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
