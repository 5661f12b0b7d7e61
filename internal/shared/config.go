package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API        APIConfig        `toml:"api"`
	Session    SessionConfig    `toml:"session"`
	Attendance AttendanceConfig `toml:"attendance"`
	Database   DatabaseConfig   `toml:"database"`
}

// APIConfig contains settings for the remote attendance-tracking API.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SessionConfig contains session lifecycle settings.
//
// IdleMinutes is the no-activity budget before a forced logout, not an
// absolute token lifetime. WatchIntervalSeconds is how often the credential
// store is polled for changes made by another process.
type SessionConfig struct {
	IdleMinutes          int `toml:"idle_minutes"`
	WatchIntervalSeconds int `toml:"watch_interval_seconds"`
}

// AttendanceConfig contains the attendance business rules.
//
// OpenHour and CloseHour bound the window in which time in/out is permitted,
// expressed as local wall-clock hours; the window is [OpenHour, CloseHour).
// Earlier deployments closed at 17, the current product decision is 19.
type AttendanceConfig struct {
	OpenHour  int `toml:"open_hour"`
	CloseHour int `toml:"close_hour"`
}

// DatabaseConfig contains local state database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// IdleTimeout returns the idle budget as a [time.Duration].
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

// WatchInterval returns the store polling cadence as a [time.Duration].
func (s SessionConfig) WatchInterval() time.Duration {
	return time.Duration(s.WatchIntervalSeconds) * time.Second
}

// Timeout returns the HTTP client timeout as a [time.Duration].
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
