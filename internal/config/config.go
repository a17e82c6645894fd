// Package config holds application configuration, layered as
// defaults < .env file < environment < flags.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// defaultStopwordsURL serves the full English stopword list the
// word-frequency metric filters against. Loading is best-effort;
// a built-in fallback set covers the failure case.
const defaultStopwordsURL = "https://raw.githubusercontent.com/stopwords-iso/stopwords-en/master/stopwords-en.json"

// Config holds all application configuration.
type Config struct {
	Host           string
	Port           int
	StopwordsURL   string
	WatchDir       string // export drop directory, "" disables
	WatchDebounce  time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8420,
		StopwordsURL:   defaultStopwordsURL,
		WatchDebounce:  500 * time.Millisecond,
		WriteTimeout:   30 * time.Second,
		MaxUploadBytes: 64 << 20, // 64MB
	}
}

// Load builds a Config from defaults, an optional .env file, and
// environment variables. Callers bind flags on top via
// RegisterFlags so explicitly set flags win.
func Load() Config {
	// Best-effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	cfg.Host = envStr("CHATLENS_HOST", cfg.Host)
	cfg.Port = envInt("CHATLENS_PORT", cfg.Port)
	cfg.StopwordsURL = envStr("CHATLENS_STOPWORDS_URL", cfg.StopwordsURL)
	cfg.WatchDir = envStr("CHATLENS_WATCH_DIR", cfg.WatchDir)
	return cfg
}

// RegisterFlags binds the CLI flags onto cfg. Call before
// fs.Parse; flag defaults come from the already-layered config.
func RegisterFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host to bind to")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.WatchDir, "watch-dir", cfg.WatchDir,
		"directory to watch for chat exports (empty disables)")
	fs.StringVar(&cfg.StopwordsURL, "stopwords-url", cfg.StopwordsURL,
		"URL of the JSON stopword list")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
