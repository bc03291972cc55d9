package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"visualnotes/core"
)

// predictionListBackend calls a dedicated image prediction endpoint that
// returns base64-encoded image bytes in a predictions list.
type predictionListBackend struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func newPredictionListBackend(config *core.Config, httpClient *http.Client) *predictionListBackend {
	return &predictionListBackend{
		apiKey:     config.ImageAPIKey,
		baseURL:    config.ImageBaseURL,
		model:      config.ImageModel,
		httpClient: httpClient,
	}
}

func (b *predictionListBackend) Name() string { return "prediction_list" }

// Request/response wire types for the predict shape.
type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int `json:"sampleCount"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MIMEType           string `json:"mimeType"`
	} `json:"predictions"`
}

// Generate posts the instruction and extracts the first prediction.
func (b *predictionListBackend) Generate(ctx context.Context, prompt string) (Payload, error) {
	reqBody := predictRequest{
		Instances:  []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{SampleCount: 1},
	}

	url := fmt.Sprintf("%s/models/%s:predict", b.baseURL, b.model)
	respBytes, err := postJSON(ctx, b.httpClient, url, b.apiKey, reqBody)
	if err != nil {
		return Payload{}, core.NewTransportError("image", err)
	}

	var resp predictResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return Payload{}, core.NewMalformedResponseError("image", "invalid JSON: "+err.Error())
	}

	return extractPrediction(resp)
}

// extractPrediction takes the first prediction carrying image bytes.
// An empty predictions list is a failure for retry purposes.
func extractPrediction(resp predictResponse) (Payload, error) {
	for _, prediction := range resp.Predictions {
		if prediction.BytesBase64Encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			return Payload{}, core.NewMalformedResponseError("image", "prediction bytes are not valid base64")
		}
		mimeType := prediction.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return Payload{Bytes: data, MIMEType: mimeType}, nil
	}
	return Payload{}, core.NewMalformedResponseError("image", "response contained no predictions with image bytes")
}
