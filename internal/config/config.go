package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL        string        `env:"DATABASE_URL,required"`
	DatabaseReplicaURL string        `env:"DATABASE_REPLICA_URL"`
	JWTSecret          string        `env:"JWT_SECRET,required"`
	JWTExpiry          time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	Port               int           `env:"PORT" envDefault:"8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv             string        `env:"APP_ENV" envDefault:"production"`

	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	RunMigrations  bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Empty disables rate limiting.
	RedisURL           string `env:"REDIS_URL"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	AccountNumberMaxAttempts int           `env:"ACCOUNT_NUMBER_MAX_ATTEMPTS" envDefault:"10"`
	HistoryMaxPageSize       int           `env:"HISTORY_MAX_PAGE_SIZE" envDefault:"100"`
	IdempotencyTTL           time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	JanitorInterval          time.Duration `env:"JANITOR_INTERVAL" envDefault:"10m"`
	LedgerCurrency           string        `env:"LEDGER_CURRENCY" envDefault:"USD"`

	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AccountNumberMaxAttempts < 1 {
		return fmt.Errorf("ACCOUNT_NUMBER_MAX_ATTEMPTS must be at least 1")
	}
	if c.HistoryMaxPageSize < 1 {
		return fmt.Errorf("HISTORY_MAX_PAGE_SIZE must be at least 1")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1")
	}
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"JWT_EXPIRY", c.JWTExpiry},
		{"IDEMPOTENCY_TTL", c.IdempotencyTTL},
		{"JANITOR_INTERVAL", c.JanitorInterval},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", p.name, p.d)
		}
	}
	// Zero lets the breaker use its own default.
	if c.BreakerOpenTimeout < 0 {
		return fmt.Errorf("BREAKER_OPEN_TIMEOUT must not be negative, got %s", c.BreakerOpenTimeout)
	}
	return nil
}

// AdminConfig is the subset of settings the admin CLI needs. It has no
// HTTP or token settings so operators can run it with database access only.
type AdminConfig struct {
	DatabaseURL              string `env:"DATABASE_URL,required"`
	MigrationsPath           string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	LogLevel                 string `env:"LOG_LEVEL" envDefault:"warn"`
	AppEnv                   string `env:"APP_ENV" envDefault:"production"`
	LedgerCurrency           string `env:"LEDGER_CURRENCY" envDefault:"USD"`
	AccountNumberMaxAttempts int    `env:"ACCOUNT_NUMBER_MAX_ATTEMPTS" envDefault:"10"`
}

func LoadAdmin() (*AdminConfig, error) {
	cfg, err := env.ParseAs[AdminConfig]()
	if err != nil {
		return nil, fmt.Errorf("config.LoadAdmin: %w", err)
	}
	if cfg.AccountNumberMaxAttempts < 1 {
		return nil, fmt.Errorf("config.LoadAdmin: ACCOUNT_NUMBER_MAX_ATTEMPTS must be at least 1")
	}
	return &cfg, nil
}
