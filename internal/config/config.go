// Package config loads server configuration from the environment,
// with a .env file honored when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Addr is the listen address, e.g. ":3001".
	Addr string
	// DatabaseURL is the postgres DSN; empty disables record keeping.
	DatabaseURL string
	// GraceWindow is the disconnect reconnection allowance.
	GraceWindow time.Duration
	// AllowedOrigins restricts websocket upgrades; empty allows all.
	AllowedOrigins []string
	// Debug switches to human-readable console logging.
	Debug bool
}

// Load reads the environment. A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        getenv("ADDR", ":3001"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		GraceWindow: 60 * time.Second,
	}
	if ms, err := strconv.Atoi(os.Getenv("GRACE_WINDOW_MS")); err == nil && ms > 0 {
		cfg.GraceWindow = time.Duration(ms) * time.Millisecond
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if debug, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		cfg.Debug = debug
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
