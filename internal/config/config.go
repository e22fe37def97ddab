// Package config centralizes how docchat reads environment variables and
// exposes them as typed values.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/dharsanguruparan/docchat/internal/model"
)

// Config is the runtime configuration for the CLI and the stub backend.
type Config struct {
	BaseURL  string
	APIKey   model.Credential
	Model    string
	LogLevel string
	LogFile  string

	StubAddress     string
	StubStreamDelay time.Duration
	StubDocumentTTL time.Duration
}

const (
	defaultBaseURL     = "http://localhost:8000/api"
	defaultLogLevel    = "info"
	defaultStubAddress = ":8000"
	defaultStreamDelay = 40 * time.Millisecond
)

// Load reads configuration from environment variables, falling back to
// defaults for anything unset or unparsable.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:         readEnv("DOCCHAT_BASE_URL", defaultBaseURL),
		APIKey:          model.Credential(readEnv("DOCCHAT_API_KEY", "")),
		Model:           readEnv("DOCCHAT_MODEL", ""),
		LogLevel:        strings.ToLower(readEnv("DOCCHAT_LOG_LEVEL", defaultLogLevel)),
		LogFile:         readEnv("DOCCHAT_LOG_FILE", ""),
		StubAddress:     readEnv("DOCCHAT_STUB_ADDRESS", defaultStubAddress),
		StubStreamDelay: parseDuration("DOCCHAT_STUB_STREAM_DELAY", defaultStreamDelay),
		StubDocumentTTL: parseDuration("DOCCHAT_STUB_DOCUMENT_TTL", 0),
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StubStreamDelay < 0 {
		cfg.StubStreamDelay = defaultStreamDelay
	}
	if cfg.StubDocumentTTL < 0 {
		cfg.StubDocumentTTL = 0
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "40ms" or "1s".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
