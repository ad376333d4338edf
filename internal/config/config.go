// Package config derives finlink's runtime configuration from the process
// environment and an optional config.yaml in the user config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"finlink/internal/callback"
	"finlink/internal/plaid"
	"finlink/pkg/logging"
)

const (
	userConfigDir  = ".config/finlink"
	configFileName = "config.yaml"

	connectionsFileName = "connections.json"
	credentialsFileName = "credentials.json"
)

// Environment variable names.
const (
	envName          = "ENV"
	envClientID      = "PLAID_CLIENT_ID"
	envSandboxSecret = "SANDBOX_PLAID_SECRET_KEY"
	envProdSecret    = "PROD_PLAID_SECRET_KEY"
	envTestMode      = "FINLINK_TEST_MODE"
)

// Callback configures the local redirect listener.
type Callback struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// TimeoutSeconds bounds the wait for the hosted link redirect.
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// Dir is the storage directory for the data files.
	Dir string `yaml:"-"`

	Callback Callback `yaml:"callback"`

	// Plaid API credentials, environment-derived.
	ClientID    string            `yaml:"-"`
	Secret      string            `yaml:"-"`
	Environment plaid.Environment `yaml:"-"`

	// TestMode substitutes deterministic values for the callback wait and
	// token exchange. Integration testing only.
	TestMode bool `yaml:"-"`
}

// DefaultDir returns the user config directory (~/.config/finlink).
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Load resolves configuration for the given directory: defaults, overlaid
// with config.yaml if present, then the environment. A missing config.yaml
// means defaults; a malformed one is an error.
func Load(dir string) (Config, error) {
	cfg := Config{
		Dir: dir,
		Callback: Callback{
			Host:           callback.DefaultHost,
			Port:           callback.DefaultPort,
			TimeoutSeconds: int(callback.DefaultWaitTimeout / time.Second),
		},
	}

	configFilePath := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("Config", "no config.yaml at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("error reading %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("Config", "loaded configuration from %s", configFilePath)
	}

	cfg.ClientID = os.Getenv(envClientID)
	if strings.EqualFold(os.Getenv(envName), "prod") {
		cfg.Environment = plaid.Production
		cfg.Secret = os.Getenv(envProdSecret)
	} else {
		cfg.Environment = plaid.Sandbox
		cfg.Secret = os.Getenv(envSandboxSecret)
	}
	cfg.TestMode = os.Getenv(envTestMode) == "1"

	return cfg, nil
}

// RequireAPICredentials checks that the Plaid credentials are present. Only
// commands that call the API need this.
func (c Config) RequireAPICredentials() error {
	if c.ClientID == "" || c.Secret == "" {
		secretEnv := envSandboxSecret
		if c.Environment == plaid.Production {
			secretEnv = envProdSecret
		}
		return fmt.Errorf("%s and %s must be set", envClientID, secretEnv)
	}
	return nil
}

// WaitTimeout returns the callback wait bound as a duration.
func (c Config) WaitTimeout() time.Duration {
	if c.Callback.TimeoutSeconds <= 0 {
		return callback.DefaultWaitTimeout
	}
	return time.Duration(c.Callback.TimeoutSeconds) * time.Second
}

// ConnectionsFile returns the path of the connection list file.
func (c Config) ConnectionsFile() string {
	return filepath.Join(c.Dir, connectionsFileName)
}

// CredentialsFile returns the path of the user profile file.
func (c Config) CredentialsFile() string {
	return filepath.Join(c.Dir, credentialsFileName)
}
