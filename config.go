package foundations

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config configures the Foundations client.
type Config struct {
	// CachePath is the path to the local SQLite cache database.
	CachePath string `yaml:"cache_path"`

	// RemoteURL is the base URL of the remote records service.
	// If empty, the client operates in offline-only mode.
	RemoteURL string `yaml:"remote_url"`

	// AuthToken authenticates with the remote service.
	AuthToken string `yaml:"auth_token"`

	// OwnerID scopes all remote operations to one authenticated
	// principal. Required when RemoteURL is set.
	OwnerID string `yaml:"owner_id"`

	// Debug enables verbose logging of gateway traffic and
	// reconciliation steps.
	Debug bool `yaml:"debug"`

	// DebugLogPath is where debug logs are written.
	// Defaults to stderr if empty.
	DebugLogPath string `yaml:"debug_log_path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CachePath: defaultCachePath(),
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "foundations.db"
	}
	return filepath.Join(home, ".foundations", "cache.db")
}

// ConfigFromEnv reads configuration from environment variables.
//
//	FOUNDATIONS_CACHE_PATH  → CachePath
//	FOUNDATIONS_REMOTE_URL  → RemoteURL
//	FOUNDATIONS_AUTH_TOKEN  → AuthToken
//	FOUNDATIONS_OWNER_ID    → OwnerID
//	FOUNDATIONS_DEBUG       → Debug (any non-empty value enables)
//	FOUNDATIONS_DEBUG_LOG   → DebugLogPath
func ConfigFromEnv() Config {
	return Config{
		CachePath:    os.Getenv("FOUNDATIONS_CACHE_PATH"),
		RemoteURL:    os.Getenv("FOUNDATIONS_REMOTE_URL"),
		AuthToken:    os.Getenv("FOUNDATIONS_AUTH_TOKEN"),
		OwnerID:      os.Getenv("FOUNDATIONS_OWNER_ID"),
		Debug:        os.Getenv("FOUNDATIONS_DEBUG") != "",
		DebugLogPath: os.Getenv("FOUNDATIONS_DEBUG_LOG"),
	}
}

// LoadConfigFile reads a YAML config file. A missing file is not an
// error; it yields the zero Config so env vars and flags can fill in.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays non-zero fields of other onto c.
func (c Config) Merge(other Config) Config {
	if other.CachePath != "" {
		c.CachePath = other.CachePath
	}
	if other.RemoteURL != "" {
		c.RemoteURL = other.RemoteURL
	}
	if other.AuthToken != "" {
		c.AuthToken = other.AuthToken
	}
	if other.OwnerID != "" {
		c.OwnerID = other.OwnerID
	}
	if other.Debug {
		c.Debug = true
	}
	if other.DebugLogPath != "" {
		c.DebugLogPath = other.DebugLogPath
	}
	return c
}

// WithDefaults fills in default values for unset fields.
func (c Config) WithDefaults() Config {
	if c.CachePath == "" {
		c.CachePath = defaultCachePath()
	}
	return c
}

// Validate checks the configuration for errors.
// Returns *ValidationError for invalid fields.
func (c *Config) Validate() error {
	if c.CachePath == "" {
		return &ValidationError{Field: "CachePath", Message: "required: path to local cache database"}
	}
	if c.RemoteURL != "" && c.AuthToken == "" {
		return &ValidationError{Field: "AuthToken", Message: "required when RemoteURL is set"}
	}
	if c.RemoteURL != "" && c.OwnerID == "" {
		return &ValidationError{Field: "OwnerID", Message: "required when RemoteURL is set"}
	}
	return nil
}

// IsOffline returns true if the client operates in offline-only mode.
func (c *Config) IsOffline() bool {
	return c.RemoteURL == ""
}
