// Package imagegen renders generation instructions into images via an
// external image generation API.
//
// The package is polymorphic over two backend response shapes: a multimodal
// completion endpoint that returns inline image bytes among its response
// parts, and a dedicated prediction endpoint that returns base64 image
// bytes in a predictions list. Callers are unaffected by which is active;
// the Renderer owns the retry/backoff policy on top of either.
package imagegen

import (
	"context"
	"net/http"
	"strings"
	"time"

	"visualnotes/core"
)

// Payload is one rendered image: raw bytes plus their MIME type.
type Payload struct {
	Bytes    []byte
	MIMEType string
}

// Backend is the capability interface for one image generation endpoint
// shape. Generate sends one instruction and returns the extracted image
// payload, or an error when the call fails or the response contains no
// extractable image.
type Backend interface {
	Generate(ctx context.Context, prompt string) (Payload, error)

	// Name identifies the backend shape in logs ("inline_part",
	// "prediction_list").
	Name() string
}

// multimodalMarker is the model-id substring that selects the inline-part
// backend. Gemini-family model ids carry it; dedicated image models
// (imagen-*) do not and route to the prediction-list shape.
const multimodalMarker = "gemini"

// IsMultimodalModel reports whether the model id routes to the inline-part
// backend. This is a pure function: case-insensitive substring matching.
func IsMultimodalModel(modelID string) bool {
	return strings.Contains(strings.ToLower(modelID), multimodalMarker)
}

// NewBackend selects and constructs the backend for the configured model.
// Selection happens once here, by configuration, not per call site.
func NewBackend(config *core.Config) (Backend, error) {
	if config == nil {
		return nil, core.ErrMissingConfig("IMAGE_MODEL")
	}
	if config.ImageAPIKey == "" {
		return nil, core.ErrMissingAuth("image")
	}
	if config.ImageModel == "" {
		return nil, core.ErrMissingConfig("IMAGE_MODEL")
	}

	httpClient := &http.Client{Timeout: config.AITimeout}
	if config.AITimeout <= 0 {
		httpClient.Timeout = 120 * time.Second
	}

	if IsMultimodalModel(config.ImageModel) {
		return newInlinePartBackend(config, httpClient), nil
	}
	return newPredictionListBackend(config, httpClient), nil
}
