package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Persistence
	DBPath string

	// Access gate. Empty ACCESS_CODE disables the gate entirely.
	AccessCode     string
	GateSigningKey string

	// Logging. Empty LogFile logs to stdout.
	LogFile string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:          getenvDefault("DB_PATH", "enso.db"),
		AccessCode:      os.Getenv("ACCESS_CODE"),
		LogFile:         os.Getenv("LOG_FILE"),
	}

	// The gate cookie is signed, so a key is only required when the gate is on.
	if cfg.AccessCode != "" {
		cfg.GateSigningKey = mustGetenv("GATE_SIGNING_KEY")
	}

	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
