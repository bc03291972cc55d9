package core

import (
	"errors"
	"testing"
)

func validTestConfig() *Config {
	return &Config{
		OpenAIAPIKey:      "sk-test-key-abcdef123456",
		OpenAIBaseURL:     DefaultOpenAIBaseURL,
		TextModel:         DefaultTextModel,
		ImageAPIKey:       "img-test-key-abcdef123456",
		ImageBaseURL:      DefaultImageBaseURL,
		ImageModel:        DefaultImageModel,
		RenderMaxAttempts: 3,
		RenderChunkSize:   3,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:     "missing openai key",
			mutate:   func(c *Config) { c.OpenAIAPIKey = "" },
			wantCode: ErrCodeMissingAuth,
		},
		{
			name:     "missing image key",
			mutate:   func(c *Config) { c.ImageAPIKey = "" },
			wantCode: ErrCodeMissingAuth,
		},
		{
			name:     "bad scheme on image base URL",
			mutate:   func(c *Config) { c.ImageBaseURL = "ftp://example.com" },
			wantCode: ErrCodeInvalidBaseURL,
		},
		{
			name:     "empty text model",
			mutate:   func(c *Config) { c.TextModel = "" },
			wantCode: ErrCodeMissingConfig,
		},
		{
			name:     "empty image model",
			mutate:   func(c *Config) { c.ImageModel = "" },
			wantCode: ErrCodeMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if configErr.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", configErr.Code, tt.wantCode)
			}
		})
	}
}

func TestConfigValidateClampsProcessingValues(t *testing.T) {
	config := validTestConfig()
	config.RenderMaxAttempts = 0
	config.RenderChunkSize = -1

	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if config.RenderMaxAttempts != 1 {
		t.Errorf("RenderMaxAttempts = %d, want clamped to 1", config.RenderMaxAttempts)
	}
	if config.RenderChunkSize != 1 {
		t.Errorf("RenderChunkSize = %d, want clamped to 1", config.RenderChunkSize)
	}
}

func TestConfigRedactedHidesKeys(t *testing.T) {
	config := validTestConfig()
	redacted := config.Redacted()

	if redacted["openai_api_key"] == config.OpenAIAPIKey {
		t.Error("Redacted() leaked the OpenAI API key")
	}
	if redacted["image_api_key"] == config.ImageAPIKey {
		t.Error("Redacted() leaked the image API key")
	}
	if redacted["text_model"] != config.TextModel {
		t.Error("Redacted() should keep non-sensitive values readable")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key-abcdef123456")
	t.Setenv("IMAGE_API_KEY", "img-test-key-abcdef123456")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.OpenAIBaseURL != DefaultOpenAIBaseURL {
		t.Errorf("OpenAIBaseURL = %q, want default", config.OpenAIBaseURL)
	}
	if config.ImageModel != DefaultImageModel {
		t.Errorf("ImageModel = %q, want default", config.ImageModel)
	}
	if config.RenderChunkSize != 3 {
		t.Errorf("RenderChunkSize = %d, want 3", config.RenderChunkSize)
	}
}
