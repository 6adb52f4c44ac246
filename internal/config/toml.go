// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Advice  AdviceConfig  `toml:"advice"`
}

// SessionConfig maps session-related settings.
type SessionConfig struct {
	Activity  *string   `toml:"activity"`
	Duration  *Duration `toml:"duration"`
	Interval  *Duration `toml:"interval"`
	Bell      *bool     `toml:"bell"`
	Dashboard *bool     `toml:"dashboard"`
}

// AdviceConfig maps advice endpoint settings.
type AdviceConfig struct {
	Endpoint  *string `toml:"endpoint"`
	Model     *string `toml:"model"`
	TimeoutMs *int    `toml:"timeout-ms"`
	APIKeyEnv *string `toml:"api-key-env"`
}

// Duration decodes TOML strings such as "25m" or "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
