package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultTimeout is the request timeout used when none is configured
const DefaultTimeout = 30 * time.Second

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BackendURL:  "",                                 // resolved to DefaultBackendURL by Backend()
		Timeout:     int(DefaultTimeout.Milliseconds()), // 30 seconds
		TokenStore:  DefaultTokenStore(),
		Environment: "dev",
		LogLevel:    "info",
		RequestID:   BoolPtr(true),
		NoColor:     BoolPtr(false),
	}
}

// DefaultTokenStore returns the file store under the user config directory
func DefaultTokenStore() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "file://.studyhub-token.json"
	}
	return "file://" + filepath.Join(dir, "studyhub", "token.json")
}

// TimeoutDuration returns the configured timeout, or DefaultTimeout
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Timeout) * time.Millisecond
}
