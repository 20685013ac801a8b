package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds application configuration.
type Config struct {
	Port            string        `env:"PORT" env-default:"8080"`
	Env             string        `env:"ENV" env-default:"dev"`
	CORSAllowOrigin []string      `env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL        time.Duration `env:"CACHE_TTL" env-default:"5m"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat       string        `env:"LOG_FORMAT" env-default:"json"`
	JWTSecret       string        `env:"JWT_SECRET"`
	StrictPlanTiers bool          `env:"STRICT_PLAN_TIERS" env-default:"true"`
	MaxResumeBytes  int64         `env:"MAX_RESUME_BYTES" env-default:"5242880"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" env-default:"10"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration from .env files and environment variables.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevLike reports whether the environment allows in-memory fallbacks and
// development-only routes.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func (c Config) validate() error {
	if c.Env != "production" {
		return nil
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
