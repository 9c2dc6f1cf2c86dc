// ABOUTME: YAML configuration for the development backend
// ABOUTME: Supports ${VAR} environment variable expansion in values

package botd

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds the backend configuration.
type Config struct {
	// Addr is the listen address, e.g. "localhost:8000".
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database path. Empty means in-memory.
	DBPath string `yaml:"db_path"`

	// JWTSecret signs access tokens minted by the refresh endpoint.
	JWTSecret string `yaml:"jwt_secret"`

	// Bots lists the chatbots this backend serves, keyed by webhook key.
	Bots []BotConfig `yaml:"bots"`
}

// BotConfig describes one chatbot.
type BotConfig struct {
	Name        string `yaml:"name"`
	WebhookKey  string `yaml:"webhook_key"`
	RepliesPath string `yaml:"replies_path"`
}

// DefaultConfig returns a config suitable for local development.
func DefaultConfig() Config {
	return Config{
		Addr:      "localhost:8000",
		DBPath:    ":memory:",
		JWTSecret: "dev-secret",
	}
}

// envVarRegex matches ${VAR} patterns in config values
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := string(match[2 : len(match)-1])
		if value, ok := os.LookupEnv(varName); ok {
			return []byte(value)
		}
		return match
	})
}

// LoadConfig reads a YAML config file, expanding ${VAR} references.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for missing required fields.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if len(c.Bots) == 0 {
		return fmt.Errorf("at least one bot is required")
	}
	seen := make(map[string]bool)
	for i, bot := range c.Bots {
		if bot.WebhookKey == "" {
			return fmt.Errorf("bots[%d]: webhook_key is required", i)
		}
		if seen[bot.WebhookKey] {
			return fmt.Errorf("bots[%d]: duplicate webhook_key %q", i, bot.WebhookKey)
		}
		seen[bot.WebhookKey] = true
	}
	return nil
}
