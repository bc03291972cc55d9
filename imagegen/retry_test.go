package imagegen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"visualnotes/logging"
)

// fakeBackend replays a scripted sequence of results, one per Generate call.
type fakeBackend struct {
	results []fakeResult
	calls   int
	prompts []string
}

type fakeResult struct {
	payload Payload
	err     error
}

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (Payload, error) {
	f.prompts = append(f.prompts, prompt)
	if f.calls >= len(f.results) {
		return Payload{}, errors.New("unscripted call")
	}
	result := f.results[f.calls]
	f.calls++
	return result.payload, result.err
}

func (f *fakeBackend) Name() string { return "fake" }

// recordingSleep captures the backoff delays without actually waiting.
func recordingSleep(delays *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func newTestRenderer(t *testing.T, backend Backend, delays *[]time.Duration) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(backend, logging.NewNopLogger(), DefaultMaxAttempts)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	renderer.sleep = recordingSleep(delays)
	return renderer
}

func TestBackoff(t *testing.T) {
	if got := Backoff(1); got != 1*time.Second {
		t.Errorf("Backoff(1) = %v, want 1s", got)
	}
	if got := Backoff(2); got != 2*time.Second {
		t.Errorf("Backoff(2) = %v, want 2s", got)
	}
}

func TestRenderSuccessFirstAttempt(t *testing.T) {
	backend := &fakeBackend{results: []fakeResult{
		{payload: Payload{Bytes: tinyPNG, MIMEType: "image/png"}},
	}}
	var delays []time.Duration
	renderer := newTestRenderer(t, backend, &delays)

	uri, err := renderer.Render(context.Background(), "画一张笔记", "sketch")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("Render() = %q, want data URI", uri)
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
	if len(delays) != 0 {
		t.Errorf("slept %v, want no backoff on first-attempt success", delays)
	}
}

func TestRenderSuccessSecondAttemptStopsRetrying(t *testing.T) {
	backend := &fakeBackend{results: []fakeResult{
		{err: errors.New("transient")},
		{payload: Payload{Bytes: tinyPNG, MIMEType: "image/png"}},
	}}
	var delays []time.Duration
	renderer := newTestRenderer(t, backend, &delays)

	if _, err := renderer.Render(context.Background(), "画一张笔记", "sketch"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend called %d times, want exactly 2", backend.calls)
	}
	if len(delays) != 1 || delays[0] != 1*time.Second {
		t.Errorf("delays = %v, want [1s]", delays)
	}
}

func TestRenderExhaustsAttemptsWithLinearBackoff(t *testing.T) {
	lastErr := errors.New("still failing")
	backend := &fakeBackend{results: []fakeResult{
		{err: errors.New("fail 1")},
		{err: errors.New("fail 2")},
		{err: lastErr},
	}}
	var delays []time.Duration
	renderer := newTestRenderer(t, backend, &delays)

	_, err := renderer.Render(context.Background(), "画一张笔记", "sketch")
	if err == nil {
		t.Fatal("Render() succeeded, want exhaustion error")
	}
	if backend.calls != 3 {
		t.Errorf("backend called %d times, want 3", backend.calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(delays) != len(want) || delays[0] != want[0] || delays[1] != want[1] {
		t.Errorf("delays = %v, want %v", delays, want)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("Render() error = %v, want the last attempt's error wrapped", err)
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("Render() error = %v, want attempt count in message", err)
	}
}

func TestRenderUndecodablePayloadCountsAsFailure(t *testing.T) {
	backend := &fakeBackend{results: []fakeResult{
		{payload: Payload{Bytes: []byte("not an image"), MIMEType: "image/png"}},
		{payload: Payload{Bytes: tinyPNG, MIMEType: "image/png"}},
	}}
	var delays []time.Duration
	renderer := newTestRenderer(t, backend, &delays)

	if _, err := renderer.Render(context.Background(), "画一张笔记", "sketch"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend called %d times, want 2 (first payload undecodable)", backend.calls)
	}
}

func TestRenderContextCancelledDuringBackoff(t *testing.T) {
	genErr := errors.New("backend down")
	backend := &fakeBackend{results: []fakeResult{
		{err: genErr},
		{err: genErr},
		{err: genErr},
	}}
	renderer, err := NewRenderer(backend, logging.NewNopLogger(), DefaultMaxAttempts)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	renderer.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	_, err = renderer.Render(context.Background(), "画一张笔记", "sketch")
	if err == nil {
		t.Fatal("Render() succeeded, want error")
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1 (cancelled before retry)", backend.calls)
	}
	if !errors.Is(err, genErr) {
		t.Errorf("Render() error = %v, want the generation error, not the cancel", err)
	}
}

func TestRenderAppendsStyleReinforcement(t *testing.T) {
	backend := &fakeBackend{results: []fakeResult{
		{payload: Payload{Bytes: tinyPNG, MIMEType: "image/png"}},
	}}
	var delays []time.Duration
	renderer := newTestRenderer(t, backend, &delays)

	if _, err := renderer.Render(context.Background(), "画一张笔记", "watercolor"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(backend.prompts) != 1 {
		t.Fatalf("prompts recorded = %d", len(backend.prompts))
	}
	if !strings.HasSuffix(backend.prompts[0], ReinforcementClause("watercolor")) {
		t.Errorf("prompt does not end with the watercolor reinforcement clause: %q", backend.prompts[0])
	}
	if !strings.HasPrefix(backend.prompts[0], "画一张笔记") {
		t.Errorf("prompt does not start with the instruction: %q", backend.prompts[0])
	}
}

func TestNewRendererNilBackend(t *testing.T) {
	if _, err := NewRenderer(nil, logging.NewNopLogger(), 3); err == nil {
		t.Error("NewRenderer(nil) succeeded, want error")
	}
}
