package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// EnvAPIKey is the environment variable holding the completion-service
// credential. It is read once at startup; absence is a startup warning, and
// generation calls made without it fail as upstream-unavailable.
const EnvAPIKey = "PLANFORGE_API_KEY"

// Config holds application configuration.
type Config struct {
	// Model is the completion model identifier sent to the LLM backend.
	Model string `json:"model,omitempty"`

	// BaseURL is the root of the OpenAI-compatible completion API.
	BaseURL string `json:"base_url,omitempty"`

	// TimeoutSeconds bounds a single completion round-trip. Generous by
	// default since plan generation can take tens of seconds.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// MaxAttempts is the retry budget for malformed model output.
	// Transport failures are never retried regardless of this value.
	MaxAttempts int `json:"max_attempts,omitempty"`

	// MaxOutputTokens caps the completion response size.
	MaxOutputTokens int `json:"max_output_tokens,omitempty"`

	// Temperature is the sampling temperature for plan generation.
	// Moderate values favor structure over creativity.
	Temperature float64 `json:"temperature,omitempty"`

	// WebBind and WebPort configure the HTTP server started by `serve`.
	WebBind string `json:"web_bind,omitempty"`
	WebPort int    `json:"web_port,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default. Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// APIKey is the completion-service credential. Never read from the config
	// file; populated from the environment by Load.
	APIKey string `json:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:           "llama-3.3-70b-versatile",
		BaseURL:         "https://api.groq.com/openai/v1",
		TimeoutSeconds:  60,
		MaxAttempts:     3,
		MaxOutputTokens: 4096,
		Temperature:     0.2,
		WebBind:         "127.0.0.1",
		WebPort:         8600,
	}
}

// Timeout returns the completion timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports startup-time configuration problems. A missing credential
// is returned as a warning string rather than an error: the store and read
// paths work without it, only generation is degraded.
func (c *Config) Validate() []string {
	var warnings []string
	if c.APIKey == "" {
		warnings = append(warnings, EnvAPIKey+" is not set; plan generation will fail until it is")
	}
	return warnings
}

// Load loads configuration from baseDir/config.json, merged over defaults,
// with the API key taken from the environment. Returns default config if the
// file doesn't exist. The baseDir parameter allows tests to use t.TempDir()
// instead of ~/.planforge.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	cfg.APIKey = os.Getenv(EnvAPIKey)
	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	overlay := &Config{}
	if err := json.Unmarshal(data, overlay); err != nil {
		return nil, err
	}

	return Merge(DefaultConfig(), overlay), nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// for non-zero scalars.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.BaseURL = overlay.BaseURL
	if result.BaseURL == "" {
		result.BaseURL = base.BaseURL
	}

	result.TimeoutSeconds = overlay.TimeoutSeconds
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = base.TimeoutSeconds
	}

	result.MaxAttempts = overlay.MaxAttempts
	if result.MaxAttempts == 0 {
		result.MaxAttempts = base.MaxAttempts
	}

	result.MaxOutputTokens = overlay.MaxOutputTokens
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = base.MaxOutputTokens
	}

	result.Temperature = overlay.Temperature
	if result.Temperature == 0 {
		result.Temperature = base.Temperature
	}

	result.WebBind = overlay.WebBind
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.APIKey = overlay.APIKey
	if result.APIKey == "" {
		result.APIKey = base.APIKey
	}

	return result
}
