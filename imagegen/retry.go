package imagegen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"visualnotes/logging"
)

// DefaultMaxAttempts is the total number of generation attempts before the
// rendering phase surfaces failure.
const DefaultMaxAttempts = 3

// Backoff returns the wait before the attempt after attempt n: linear,
// n seconds. With three attempts the delays are 1s then 2s.
func Backoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// attemptState is the explicit state of the retry loop. Modeling the loop
// as a state machine keeps the policy testable without real delays.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateSucceeded
	stateExhausted
)

// SleepFunc pauses for the given duration or returns early with the
// context's error. Injected so tests can virtualize the backoff clock.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Renderer drives one generation instruction through the configured backend
// with retries, payload validation, and data-URI wrapping.
//
// Unlike the structuring phase, rendering has no content-level fallback: if
// every attempt fails, the last error is surfaced to the caller and the
// unit's phase fails.
type Renderer struct {
	backend     Backend
	logger      *logging.Logger
	maxAttempts int
	sleep       SleepFunc
}

// NewRenderer creates a Renderer over the given backend.
func NewRenderer(backend Backend, logger *logging.Logger, maxAttempts int) (*Renderer, error) {
	if backend == nil {
		return nil, fmt.Errorf("imagegen: backend cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Renderer{
		backend:     backend,
		logger:      logger.Named("imagegen"),
		maxAttempts: maxAttempts,
		sleep:       defaultSleep,
	}, nil
}

// Render generates an image for the instruction and returns it as a data
// URI. The style id only selects the reinforcement clause appended to the
// instruction; the backend was already chosen at construction time.
func (r *Renderer) Render(ctx context.Context, prompt, styleID string) (string, error) {
	fullPrompt := prompt + "\n" + ReinforcementClause(styleID)

	var lastErr error
	state := stateAttempting
	attempt := 0

	for state == stateAttempting {
		attempt++
		start := time.Now()

		payload, err := r.backend.Generate(ctx, fullPrompt)
		if err == nil {
			err = ValidatePayload(payload)
		}

		if err == nil {
			state = stateSucceeded
			r.logger.Info("image rendered",
				zap.String("backend", r.backend.Name()),
				logging.AttemptField(attempt),
				logging.DurationField(time.Since(start)),
				zap.Int("bytes", len(payload.Bytes)),
			)
			return DataURI(payload), nil
		}

		lastErr = err
		r.logger.Warn("image generation attempt failed",
			zap.String("backend", r.backend.Name()),
			logging.AttemptField(attempt),
			zap.Error(err),
		)

		if attempt >= r.maxAttempts {
			state = stateExhausted
			break
		}
		if sleepErr := r.sleep(ctx, Backoff(attempt)); sleepErr != nil {
			// Context cancelled during backoff; stop retrying but surface
			// the generation error, which is the more useful one.
			state = stateExhausted
			break
		}
	}

	return "", fmt.Errorf("imagegen: %d attempts exhausted: %w", attempt, lastErr)
}
