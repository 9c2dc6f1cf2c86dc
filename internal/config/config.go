// ABOUTME: Widget configuration: defaults, merging, validation, YAML and env loading.
// ABOUTME: Supports ${VAR} expansion in files and declarative auto-init via CHATBOT_* env vars.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Default appearance values, matching what the hosted widget ships with.
const (
	DefaultPrimaryColor = "#2563eb"
	DefaultTextColor    = "#ffffff"
	DefaultButtonText   = "Chat"
	DefaultPlaceholder  = "Type your message..."
	DefaultTitle        = "Chat with us"

	// DefaultRequestTimeout bounds a single webhook exchange so a hung
	// backend cannot leave the input locked forever.
	DefaultRequestTimeout = 30 * time.Second
)

// Env var names for declarative auto-initialization. These are the
// process-level analog of the script-tag data attributes
// (data-chatbot-webhook-key / data-chatbot-api-url).
const (
	EnvWebhookKey = "CHATBOT_WEBHOOK_KEY"
	EnvAPIURL     = "CHATBOT_API_URL"
)

// defaultAPIBaseURL is used by FromEnv when only the webhook key is set,
// mirroring the widget's fallback to the embedding origin's /api path.
const defaultAPIBaseURL = "http://localhost:8000/api"

// Config holds the complete widget configuration. It is immutable after
// initialization: the widget interpolates these values into its surface
// once, at construction time, not reactively.
type Config struct {
	// WebhookKey is the opaque tenant+bot identifier. Required.
	WebhookKey string `yaml:"webhook_key"`

	// APIBaseURL is the backend base URL, without a trailing slash. Required.
	APIBaseURL string `yaml:"api_base_url"`

	PrimaryColor string `yaml:"primary_color"`
	TextColor    string `yaml:"text_color"`
	ButtonText   string `yaml:"button_text"`
	Placeholder  string `yaml:"placeholder"`
	Title        string `yaml:"title"`

	// RequestTimeout bounds a single webhook exchange. Zero disables the
	// timeout entirely.
	RequestTimeout time.Duration `yaml:"-"`

	// MaxTranscript caps the number of retained transcript entries.
	// Zero means unbounded, matching the hosted widget's behavior.
	MaxTranscript int `yaml:"max_transcript"`

	// Raw string value for YAML unmarshaling
	RequestTimeoutRaw string `yaml:"request_timeout"`

	// timeoutSet records that RequestTimeout was explicitly provided, so a
	// zero value means "disabled" rather than "use the default".
	timeoutSet bool
}

// Default returns a Config populated with every optional field's default.
// WebhookKey and APIBaseURL remain empty and must be supplied by the caller.
func Default() Config {
	return Config{
		PrimaryColor:   DefaultPrimaryColor,
		TextColor:      DefaultTextColor,
		ButtonText:     DefaultButtonText,
		Placeholder:    DefaultPlaceholder,
		Title:          DefaultTitle,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Merge overlays the non-zero fields of over onto c and returns the result.
// This is how caller-supplied options are combined with Default().
func (c Config) Merge(over Config) Config {
	if over.WebhookKey != "" {
		c.WebhookKey = over.WebhookKey
	}
	if over.APIBaseURL != "" {
		c.APIBaseURL = over.APIBaseURL
	}
	if over.PrimaryColor != "" {
		c.PrimaryColor = over.PrimaryColor
	}
	if over.TextColor != "" {
		c.TextColor = over.TextColor
	}
	if over.ButtonText != "" {
		c.ButtonText = over.ButtonText
	}
	if over.Placeholder != "" {
		c.Placeholder = over.Placeholder
	}
	if over.Title != "" {
		c.Title = over.Title
	}
	if over.RequestTimeout != 0 || over.timeoutSet {
		c.RequestTimeout = over.RequestTimeout
	}
	if over.MaxTranscript != 0 {
		c.MaxTranscript = over.MaxTranscript
	}
	return c
}

// WithoutTimeout returns a copy of c with the request timeout disabled.
func (c Config) WithoutTimeout() Config {
	c.RequestTimeout = 0
	c.timeoutSet = true
	return c
}

// Validate checks that the required fields are present. The widget is not
// constructed when validation fails.
func (c Config) Validate() error {
	if c.WebhookKey == "" {
		return fmt.Errorf("webhook_key is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	return nil
}

// Load reads a widget configuration file from the given path, expands
// ${VAR_NAME} references against the environment, merges the result over
// Default(), and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var fileCfg Config
	if err := yaml.Unmarshal([]byte(expanded), &fileCfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.RequestTimeoutRaw != "" {
		d, err := time.ParseDuration(fileCfg.RequestTimeoutRaw)
		if err != nil {
			return Config{}, fmt.Errorf("parsing request_timeout %q: %w", fileCfg.RequestTimeoutRaw, err)
		}
		fileCfg.RequestTimeout = d
		fileCfg.timeoutSet = true
	}

	cfg := Default().Merge(fileCfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a Config from the CHATBOT_* environment variables. It
// returns ok=false when the webhook key is absent, meaning declarative
// auto-init should not run. When the key is set but the API URL is not,
// the local default base URL is assumed.
func FromEnv() (Config, bool) {
	key := os.Getenv(EnvWebhookKey)
	if key == "" {
		return Config{}, false
	}

	base := os.Getenv(EnvAPIURL)
	if base == "" {
		base = defaultAPIBaseURL
	}

	cfg := Default().Merge(Config{
		WebhookKey: key,
		APIBaseURL: base,
	})
	return cfg, true
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
