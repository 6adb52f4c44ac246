package advice

import (
	"os"
	"strconv"
	"strings"
)

// Config holds settings for the advice endpoint.
type Config struct {
	Endpoint  string
	Model     string
	TimeoutMs int
	// APIKeyEnv lists environment variables checked in order for the key.
	APIKeyEnv []string
}

// DefaultConfig targets Gemini's OpenAI-compatible API.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "https://generativelanguage.googleapis.com/v1beta/openai",
		Model:     "gemini-2.5-flash",
		TimeoutMs: 20000,
		APIKeyEnv: []string{"TUIFOCUS_API_KEY", "GEMINI_API_KEY"},
	}
}

// ApplyEnv overrides cfg with TUIFOCUS_ADVICE_* environment variables.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("TUIFOCUS_ADVICE_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TUIFOCUS_ADVICE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TUIFOCUS_ADVICE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	return cfg
}

// APIKey returns the first non-empty key among cfg.APIKeyEnv.
func (c Config) APIKey() (string, error) {
	for _, name := range c.APIKeyEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", ErrNoAPIKey
}
