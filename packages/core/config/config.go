package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the studyhub configuration
type Config struct {
	BackendURL  string            `json:"backendURL,omitempty" yaml:"backendURL,omitempty"`
	Timeout     int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	TokenStore  string            `json:"tokenStore,omitempty" yaml:"tokenStore,omitempty"`
	Environment string            `json:"environment,omitempty" yaml:"environment,omitempty"`
	LogLevel    string            `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Extra default headers
	RequestID   *bool             `json:"requestID,omitempty" yaml:"requestID,omitempty"`
	NoColor     *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// environ mirrors the STUDYHUB_* variables. Unset variables stay zero so
// they never override file values during Merge.
type environ struct {
	BackendURL  string `env:"STUDYHUB_BACKEND_URL"`
	Timeout     int    `env:"STUDYHUB_TIMEOUT"`
	TokenStore  string `env:"STUDYHUB_TOKEN_STORE"`
	Environment string `env:"STUDYHUB_ENVIRONMENT"`
	LogLevel    string `env:"STUDYHUB_LOG_LEVEL"`
	NoColor     string `env:"STUDYHUB_NO_COLOR"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetRequestID returns whether requests get an X-Request-ID, defaulting to true
func (c *Config) GetRequestID() bool {
	return getBool(c.RequestID, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// Backend resolves the configured backend URL.
func (c *Config) Backend() Backend {
	return NewBackend(c.BackendURL)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".studyhub.json",
	"studyhub.json",
	".studyhub.yaml",
	".studyhub.yml",
}

// LoadOptions selects where Load looks for configuration.
type LoadOptions struct {
	// ConfigPath is an explicit config file. When empty, ConfigFilenames are searched in Dir.
	ConfigPath string
	// EnvFile is an explicit .env file. When empty, Dir/.env is used if it exists.
	EnvFile string
	// Dir is the directory searched for config and .env files. Defaults to ".".
	Dir string
}

// Load builds the effective configuration: defaults, then the config file,
// then the environment (including .env values that don't shadow real variables).
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	if err := LoadDotEnv(opts.EnvFile, dir); err != nil {
		return nil, err
	}

	var (
		cfg *Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = loadConfigFromFile(opts.ConfigPath)
	} else {
		cfg, err = FindAndLoadConfig(dir)
	}
	if err != nil {
		return nil, err
	}

	fromEnv, err := FromEnv()
	if err != nil {
		return nil, err
	}
	return cfg.Merge(fromEnv), nil
}

// LoadDotEnv exports a .env file into the process environment. Variables
// already set are left alone. A missing default .env is not an error, a
// missing explicit one is.
func LoadDotEnv(path, dir string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("cannot load env file: %w", err)
		}
		return nil
	}

	def := filepath.Join(dir, ".env")
	if _, err := os.Stat(def); err != nil {
		return nil
	}
	if err := godotenv.Load(def); err != nil {
		return fmt.Errorf("cannot load env file: %w", err)
	}
	return nil
}

// FromEnv reads the STUDYHUB_* variables into a Config.
func FromEnv() (*Config, error) {
	var e environ
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	cfg := &Config{
		BackendURL:  e.BackendURL,
		Timeout:     e.Timeout,
		TokenStore:  e.TokenStore,
		Environment: e.Environment,
		LogLevel:    e.LogLevel,
	}
	if e.NoColor != "" {
		v := e.NoColor == "true" || e.NoColor == "1" || e.NoColor == "yes"
		cfg.NoColor = &v
	}
	return cfg, nil
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. The format
// follows the extension; anything that isn't .yaml/.yml is read as JSON.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}

	fromFile := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fromFile)
	default:
		err = json.Unmarshal(data, fromFile)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return DefaultConfig().Merge(fromFile), nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BackendURL != "" {
		result.BackendURL = other.BackendURL
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.TokenStore != "" {
		result.TokenStore = other.TokenStore
	}
	if other.Environment != "" {
		result.Environment = other.Environment
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}

	// Boolean flags - only override if explicitly set in other config
	if other.RequestID != nil {
		result.RequestID = other.RequestID
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(c.Headers) > 0 || len(other.Headers) > 0 {
		result.Headers = make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			result.Headers[k] = v
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the extension asks for it
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
