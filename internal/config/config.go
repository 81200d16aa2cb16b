package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime settings, loaded once at startup from the
// environment (optionally via a .env file).
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	CORSOrigins []string
	LogLevel    string

	// SessionTTL bounds login session lifetime.
	SessionTTL time.Duration
	// TurnTimeout is how long a player may sit on their turn before the
	// game auto-draws and passes for them. Zero disables the timer.
	TurnTimeout time.Duration
	// TeardownGrace is how long an abandoned game stays in memory before
	// the reaper removes it.
	TeardownGrace time.Duration
	// MaxPersistAttempts bounds the append-turn retry loop.
	MaxPersistAttempts int
}

// Load reads configuration from the environment. A missing .env file is not
// an error; missing required values are fatal.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, reading environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SessionTTL:         getDuration("SESSION_TTL", 7*24*time.Hour),
		TurnTimeout:        getDuration("TURN_TIMEOUT", 0),
		TeardownGrace:      getDuration("TEARDOWN_GRACE", 5*time.Minute),
		MaxPersistAttempts: getInt("MAX_PERSIST_ATTEMPTS", 3),
	}

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using %d", v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
