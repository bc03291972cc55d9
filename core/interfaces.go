// Package core provides configuration, the error taxonomy, and the shared
// capability interfaces for the visual notes pipeline.
package core

import "context"

// TextCompleter is the capability interface for text completion services.
// TextSplitter and StructureExtractor consume this seam; the llm package
// provides the production implementation over an OpenAI-compatible API.
//
// Complete sends one prompt and returns the raw model text. The output is
// untrusted: callers must validate before use. Errors are transport-level
// (network, HTTP status, timeout); the completer never inspects content.
//
// This interface enables dependency injection and testing of pipeline
// components without a live API.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
