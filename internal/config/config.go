package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultServiceURL is the local-development reminder service address.
const DefaultServiceURL = "http://127.0.0.1:8000"

type Config struct {
	// ReminderServiceURL is the base URL clients use to reach the reminder
	// service. Trailing slashes are stripped.
	ReminderServiceURL string
	Port               string
	LogLevel           slog.Level
	Store              StoreConfig
	Redis              *RedisConfig
	Dispatch           DispatchConfig
	Twilio             TwilioConfig
}

type StoreConfig struct {
	Backend string // "memory" or "redis"
}

type DispatchConfig struct {
	// Interval between due-reminder sweeps.
	Interval time.Duration
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Enabled reports whether real calls can be placed; otherwise the dispatcher
// falls back to the simulated caller.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	serviceURL := os.Getenv("REMINDER_SERVICE_URL")
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	serviceURL = strings.TrimRight(serviceURL, "/")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	backend := strings.ToLower(os.Getenv("STORE_BACKEND"))
	if backend == "" {
		backend = StoreBackendMemory
	}
	if backend != StoreBackendMemory && backend != StoreBackendRedis {
		return nil, ErrInvalidStoreBackend
	}

	interval := 15 * time.Second
	if v := os.Getenv("DISPATCH_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidDispatchInterval
		}
		interval = parsed
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}
	if err := redisConfig.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		ReminderServiceURL: serviceURL,
		Port:               port,
		LogLevel:           parseLogLevel(os.Getenv("LOG_LEVEL")),
		Store:              StoreConfig{Backend: backend},
		Redis:              redisConfig,
		Dispatch:           DispatchConfig{Interval: interval},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		},
	}, nil
}

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
