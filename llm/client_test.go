package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"visualnotes/core"
)

func testClientConfig(baseURL string) *core.Config {
	return &core.Config{
		OpenAIAPIKey:  "sk-test-key-abcdef123456",
		OpenAIBaseURL: baseURL,
		TextModel:     "gpt-4o-mini",
		TextMaxTokens: 256,
		AITimeout:     5 * time.Second,
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(nil); err == nil {
		t.Error("NewClient(nil) should fail")
	}

	config := testClientConfig("")
	config.OpenAIAPIKey = ""
	if _, err := NewClient(config); !core.IsConfigError(err) {
		t.Errorf("NewClient without key = %v, want ConfigError", err)
	}
}

func TestCompleteRoundTrip(t *testing.T) {
	var gotModel, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "整理结果"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(testClientConfig(server.URL + "/v1"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	text, err := client.Complete(context.Background(), "请整理这段文字")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "整理结果" {
		t.Errorf("Complete() = %q, want 整理结果", text)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("request model = %q", gotModel)
	}
	if gotPrompt != "请整理这段文字" {
		t.Errorf("request prompt = %q", gotPrompt)
	}
}

func TestCompleteTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := NewClient(testClientConfig(server.URL + "/v1"))
	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Complete() should surface HTTP errors")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client, _ := NewClient(testClientConfig(server.URL + "/v1"))
	_, err := client.Complete(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("Complete() error = %v, want no-choices error", err)
	}
}
