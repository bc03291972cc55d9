package core

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all configuration values for the visual notes pipeline.
type Config struct {
	// Text completion API (OpenAI-compatible endpoint)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	TextModel     string
	TextMaxTokens int

	// Image generation API (Gemini-style endpoint)
	ImageAPIKey  string
	ImageBaseURL string
	ImageModel   string

	// Visual settings defaults for new batches
	StyleID    string
	ColorTheme string
	Watermark  string
	StylesFile string // optional YAML file with style preset overrides

	// Processing configuration
	RenderMaxAttempts int
	RenderChunkSize   int
	AITimeout         time.Duration
	DownloadsDir      string
}

// Default endpoints and models. All can be overridden via environment
// variables to target self-hosted or proxy deployments.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultImageBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTextModel     = "gpt-4o-mini"
	DefaultImageModel    = "gemini-2.0-flash-preview-image-generation"
)

// LoadConfig loads configuration from environment variables.
// Call godotenv.Load() before this if a .env file should be honored.
//
// Returns a ConfigError if a required value is missing or malformed so the
// caller can fail fast before any pipeline work starts.
func LoadConfig() (*Config, error) {
	config := &Config{
		OpenAIAPIKey:  GetEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIBaseURL: GetEnvOrDefault("OPENAI_API_BASE_URL", DefaultOpenAIBaseURL),
		TextModel:     GetEnvOrDefault("TEXT_MODEL", DefaultTextModel),
		TextMaxTokens: ParseIntEnv("TEXT_MAX_TOKENS", 2048),

		ImageAPIKey:  GetEnvOrDefault("IMAGE_API_KEY", ""),
		ImageBaseURL: GetEnvOrDefault("IMAGE_API_BASE_URL", DefaultImageBaseURL),
		ImageModel:   GetEnvOrDefault("IMAGE_MODEL", DefaultImageModel),

		StyleID:    GetEnvOrDefault("VISUAL_STYLE", "sketch"),
		ColorTheme: GetEnvOrDefault("COLOR_THEME", ""),
		Watermark:  GetEnvOrDefault("WATERMARK", ""),
		StylesFile: GetEnvOrDefault("STYLES_FILE", ""),

		RenderMaxAttempts: ParseIntEnv("RENDER_MAX_ATTEMPTS", 3),
		RenderChunkSize:   ParseIntEnv("RENDER_CHUNK_SIZE", 3),
		AITimeout:         ParseDurationEnv("AI_TIMEOUT_SECONDS", 120),
		DownloadsDir:      GetEnvOrDefault("DOWNLOADS_DIR", "downloads"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values that would make the pipeline
// unable to run. It returns the first problem found as a ConfigError.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAuth("openai")
	}
	if c.ImageAPIKey == "" {
		return ErrMissingAuth("image")
	}
	if err := validateBaseURL(c.OpenAIBaseURL); err != nil {
		return ErrInvalidBaseURL("OPENAI_API_BASE_URL", c.OpenAIBaseURL, err.Error())
	}
	if err := validateBaseURL(c.ImageBaseURL); err != nil {
		return ErrInvalidBaseURL("IMAGE_API_BASE_URL", c.ImageBaseURL, err.Error())
	}
	if c.TextModel == "" {
		return ErrMissingConfig("TEXT_MODEL")
	}
	if c.ImageModel == "" {
		return ErrMissingConfig("IMAGE_MODEL")
	}
	if c.RenderMaxAttempts < 1 {
		c.RenderMaxAttempts = 1
	}
	if c.RenderChunkSize < 1 {
		c.RenderChunkSize = 1
	}
	return nil
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// Redacted returns config values safe for logging: API keys are replaced
// with a short fingerprint.
func (c *Config) Redacted() map[string]string {
	return map[string]string{
		"openai_base_url": c.OpenAIBaseURL,
		"openai_api_key":  fingerprint(c.OpenAIAPIKey),
		"text_model":      c.TextModel,
		"image_base_url":  c.ImageBaseURL,
		"image_api_key":   fingerprint(c.ImageAPIKey),
		"image_model":     c.ImageModel,
		"style":           c.StyleID,
	}
}

func fingerprint(key string) string {
	if len(key) <= 8 {
		if key == "" {
			return "(unset)"
		}
		return "****"
	}
	return key[:4] + "...." + key[len(key)-2:]
}
