package config

import "time"

// Config holds formlens configuration.
// Loaded from ./config.yaml or ~/.formlens/config.yaml, with FORMLENS_
// environment overrides.
type Config struct {
	OpenAI    OpenAICfg    `mapstructure:"openai" yaml:"openai"`
	Converter ConverterCfg `mapstructure:"converter" yaml:"converter"`
	Backend   BackendCfg   `mapstructure:"backend" yaml:"backend"`
	Analysis  AnalysisCfg  `mapstructure:"analysis" yaml:"analysis"`
}

// OpenAICfg configures the vision/text model API.
type OpenAICfg struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	Model          string `mapstructure:"model" yaml:"model"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"` // optional OpenAI-compatible endpoint
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c OpenAICfg) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConverterCfg configures the PDF-to-images conversion service.
type ConverterCfg struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c ConverterCfg) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackendCfg configures the form storage/submission backend.
type BackendCfg struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// StoreAttempts is the number of attempts for StoreFormStructure.
	StoreAttempts int `mapstructure:"store_attempts" yaml:"store_attempts"`
	// StoreTimeoutSeconds is the per-attempt timeout for StoreFormStructure.
	StoreTimeoutSeconds int `mapstructure:"store_timeout_seconds" yaml:"store_timeout_seconds"`
	// StoreBackoffSeconds is the base delay between store attempts; each
	// retry doubles it.
	StoreBackoffSeconds int `mapstructure:"store_backoff_seconds" yaml:"store_backoff_seconds"`
}

// StoreTimeout returns the per-attempt store timeout.
func (c BackendCfg) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

// StoreBackoff returns the base backoff delay between store attempts.
func (c BackendCfg) StoreBackoff() time.Duration {
	return time.Duration(c.StoreBackoffSeconds) * time.Second
}

// AnalysisCfg holds extraction pipeline limits.
type AnalysisCfg struct {
	// MaxPages caps how many PDF pages one analysis may cover. Above the
	// cap the caller must select a page subset.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`
	// MaxTokens bounds model completions.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
	// Temperature for model calls.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	// BrowserNavTimeoutSeconds bounds URL navigation.
	BrowserNavTimeoutSeconds int `mapstructure:"browser_nav_timeout_seconds" yaml:"browser_nav_timeout_seconds"`
	// BrowserSettleSeconds is the fixed extra delay after load for
	// client-side rendering.
	BrowserSettleSeconds int `mapstructure:"browser_settle_seconds" yaml:"browser_settle_seconds"`
}

// BrowserNavTimeout returns the navigation timeout as a duration.
func (c AnalysisCfg) BrowserNavTimeout() time.Duration {
	return time.Duration(c.BrowserNavTimeoutSeconds) * time.Second
}

// BrowserSettle returns the post-load settle delay as a duration.
func (c AnalysisCfg) BrowserSettle() time.Duration {
	return time.Duration(c.BrowserSettleSeconds) * time.Second
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAICfg{
			APIKey:         "${OPENAI_API_KEY}",
			Model:          "gpt-4o",
			TimeoutSeconds: 120,
		},
		Converter: ConverterCfg{
			BaseURL:        "http://localhost:3001",
			TimeoutSeconds: 60,
		},
		Backend: BackendCfg{
			BaseURL:             "http://localhost:3002",
			StoreAttempts:       3,
			StoreTimeoutSeconds: 30,
			StoreBackoffSeconds: 2,
		},
		Analysis: AnalysisCfg{
			MaxPages:                 10,
			MaxTokens:                2000,
			Temperature:              0.1,
			BrowserNavTimeoutSeconds: 45,
			BrowserSettleSeconds:     4,
		},
	}
}
