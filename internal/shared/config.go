package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string `validate:"required"`
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int `validate:"gte=0"`
	RedisPass       string
	BackendBase     string `validate:"required,url"`
	BackendToken    string
	BackendRPS      int `validate:"gte=1"`
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	StateStore      string `validate:"oneof=memory redis"`
}

// Load reads the environment (and a local .env when present) and validates
// the result.
func Load() (Config, error) {
	// a missing .env is fine; real deployments set env vars directly
	_ = godotenv.Load()

	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", ""),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPass:       env("REDIS_PASSWORD", ""),
		BackendBase:     env("BACKEND_BASE_URL", "http://localhost:5000/api"),
		BackendToken:    env("BACKEND_TOKEN", ""),
		BackendRPS:      atoi("BACKEND_RPS", 10),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		RefreshInterval: time.Duration(atoi("DASHBOARD_REFRESH_SECONDS", 0)) * time.Second,
		StateStore:      env("STATE_STORE", "memory"),
	}
	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if c.BackendToken == "" {
		log.Warn().Msg("BACKEND_TOKEN is empty; backend calls will be unauthenticated")
	}
	return c, nil
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
