// Package config handles XDG configuration directory, file paths, and API settings.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// CredentialFile is the encrypted credential store filename.
	CredentialFile = "credentials.bin"

	// KeyFile is the per-install encryption key filename.
	KeyFile = "secret.key"

	// DeviceFile is the persisted device identity filename.
	DeviceFile = "device_id"
)

// API holds remote endpoint settings, read from the environment.
type API struct {
	BaseURL string        `env:"TASKDECK_API_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `env:"TASKDECK_HTTP_TIMEOUT" env-default:"2s"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// API holds remote endpoint settings.
	API API

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory
// and reads API settings from the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir}
	if err := cleanenv.ReadEnv(&cfg.API); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// CredentialPath returns the path to the encrypted credential store.
func (c *Config) CredentialPath() string {
	return filepath.Join(c.Dir, CredentialFile)
}

// KeyPath returns the path to the per-install encryption key.
func (c *Config) KeyPath() string {
	return filepath.Join(c.Dir, KeyFile)
}

// DevicePath returns the path to the persisted device identity.
func (c *Config) DevicePath() string {
	return filepath.Join(c.Dir, DeviceFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasCredentials checks if the credential store file exists.
func (c *Config) HasCredentials() bool {
	_, err := os.Stat(c.CredentialPath())
	return err == nil
}
