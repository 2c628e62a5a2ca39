package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all analyzer configuration
type Config struct {
	// Server settings
	ListenAddr string

	// Persistence; empty disables storage
	DatabaseURL string

	// Generative backend; empty host disables the generative path
	OllamaHost      string
	OllamaModel     string
	ProbeTimeout    time.Duration
	GenerateTimeout time.Duration

	// Logging
	LogLevel string

	// Batch analysis concurrency
	Workers int
}

// Load reads configuration from environment variables with sensible defaults
func Load() Config {
	return Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OllamaHost:      getenv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:     getenv("OLLAMA_MODEL", "llama3.1:8b"),
		ProbeTimeout:    getenvDuration("OLLAMA_PROBE_TIMEOUT", 2*time.Second),
		GenerateTimeout: getenvDuration("OLLAMA_GENERATE_TIMEOUT", 10*time.Second),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Workers:         getenvInt("ANALYSIS_WORKERS", 4),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
