package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"visualnotes/core"
)

// inlinePartBackend calls a multimodal generateContent endpoint that
// returns inline image bytes among its response parts.
type inlinePartBackend struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func newInlinePartBackend(config *core.Config, httpClient *http.Client) *inlinePartBackend {
	return &inlinePartBackend{
		apiKey:     config.ImageAPIKey,
		baseURL:    config.ImageBaseURL,
		model:      config.ImageModel,
		httpClient: httpClient,
	}
}

func (b *inlinePartBackend) Name() string { return "inline_part" }

// Request/response wire types for the generateContent shape.
type inlineGenerateRequest struct {
	Contents         []inlineContent        `json:"contents"`
	GenerationConfig inlineGenerationConfig `json:"generationConfig"`
}

type inlineContent struct {
	Parts []inlinePart `json:"parts"`
}

type inlinePart struct {
	Text       string           `json:"text,omitempty"`
	InlineData *inlineImageData `json:"inlineData,omitempty"`
}

type inlineImageData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type inlineGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type inlineGenerateResponse struct {
	Candidates []struct {
		Content inlineContent `json:"content"`
	} `json:"candidates"`
}

// Generate posts the instruction and extracts the first inline image part.
func (b *inlinePartBackend) Generate(ctx context.Context, prompt string) (Payload, error) {
	reqBody := inlineGenerateRequest{
		Contents: []inlineContent{
			{Parts: []inlinePart{{Text: prompt}}},
		},
		GenerationConfig: inlineGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", b.baseURL, b.model)
	respBytes, err := postJSON(ctx, b.httpClient, url, b.apiKey, reqBody)
	if err != nil {
		return Payload{}, core.NewTransportError("image", err)
	}

	var resp inlineGenerateResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return Payload{}, core.NewMalformedResponseError("image", "invalid JSON: "+err.Error())
	}

	return extractInlineImage(resp)
}

// extractInlineImage scans the response parts for the first inline image.
// A response with no extractable image is a failure for retry purposes.
func extractInlineImage(resp inlineGenerateResponse) (Payload, error) {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return Payload{}, core.NewMalformedResponseError("image", "inline data is not valid base64")
			}
			return Payload{Bytes: data, MIMEType: part.InlineData.MIMEType}, nil
		}
	}
	return Payload{}, core.NewMalformedResponseError("image", "response contained no inline image part")
}

// postJSON posts a JSON body with the API key header and returns the raw
// response bytes. Non-2xx statuses are returned as errors including a
// truncated response body for diagnosis.
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, body interface{}) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBytes), 200))
	}
	return respBytes, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
