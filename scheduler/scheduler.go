// Package scheduler fans unit work out across goroutines with two
// concurrency shapes: an uncapped wave for cheap text calls, and a chunked
// wave with a hard barrier between chunks for expensive image calls.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"visualnotes/logging"
)

// DefaultChunkSize bounds how many image renders run at once. Image
// endpoints rate-limit aggressively, so paint waves run in small chunks
// instead of all at once.
const DefaultChunkSize = 3

// WorkFunc processes one unit. An error marks that unit failed; it never
// aborts siblings.
type WorkFunc func(ctx context.Context, unitID string) error

// Outcome records how one unit fared in a wave.
type Outcome struct {
	UnitID string
	Err    error
}

// Summary aggregates a wave's outcomes, in the order units were submitted.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Failures returns the outcomes that carried an error.
func (s Summary) Failures() []Outcome {
	var failed []Outcome
	for _, outcome := range s.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Scheduler runs unit waves. Zero value is not usable; use New.
type Scheduler struct {
	logger     *logging.Logger
	chunkSize  int
	onComplete func(Summary)
}

// New creates a Scheduler. A chunk size below 1 falls back to the default.
func New(logger *logging.Logger, chunkSize int) *Scheduler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &Scheduler{
		logger:    logger.Named("scheduler"),
		chunkSize: chunkSize,
	}
}

// OnPhaseComplete registers a callback invoked with the summary after each
// wave settles, before the wave's caller gets the summary back. Callers
// that only need the summary can ignore this and use the return value.
func (s *Scheduler) OnPhaseComplete(fn func(Summary)) {
	s.onComplete = fn
}

func (s *Scheduler) notifyComplete(summary Summary) {
	if s.onComplete != nil {
		s.onComplete(summary)
	}
}

// RunAll processes every unit concurrently with no cap and waits for all of
// them. Used for the organizing wave, where each call is a cheap text
// completion.
func (s *Scheduler) RunAll(ctx context.Context, unitIDs []string, work WorkFunc) Summary {
	start := time.Now()
	outcomes := make([]Outcome, len(unitIDs))

	var wg sync.WaitGroup
	for i, id := range unitIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcomes[i] = Outcome{UnitID: id, Err: runOne(ctx, id, work)}
		}(i, id)
	}
	wg.Wait()

	summary := summarize(outcomes)
	s.logger.Info("wave complete",
		zap.String("shape", "uncapped"),
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		logging.DurationField(time.Since(start)),
	)
	s.notifyComplete(summary)
	return summary
}

// RunChunks processes units in fixed-size chunks with a hard barrier: every
// unit in a chunk finishes, success or failure, before the next chunk
// starts. Used for the painting wave. A failed unit never blocks its chunk
// siblings or later chunks.
func (s *Scheduler) RunChunks(ctx context.Context, unitIDs []string, work WorkFunc) Summary {
	start := time.Now()
	outcomes := make([]Outcome, 0, len(unitIDs))

	for chunkIndex, chunk := range chunkIDs(unitIDs, s.chunkSize) {
		chunkOutcomes := make([]Outcome, len(chunk))

		group, groupCtx := errgroup.WithContext(ctx)
		for i, id := range chunk {
			i, id := i, id
			group.Go(func() error {
				chunkOutcomes[i] = Outcome{UnitID: id, Err: runOne(groupCtx, id, work)}
				// Errors are captured per unit; returning nil keeps one
				// failure from cancelling chunk siblings.
				return nil
			})
		}
		_ = group.Wait()

		outcomes = append(outcomes, chunkOutcomes...)
		s.logger.Debug("chunk complete",
			zap.Int("chunk", chunkIndex),
			zap.Int("size", len(chunk)),
		)
	}

	summary := summarize(outcomes)
	s.logger.Info("wave complete",
		zap.String("shape", "chunked"),
		zap.Int("chunk_size", s.chunkSize),
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		logging.DurationField(time.Since(start)),
	)
	s.notifyComplete(summary)
	return summary
}

// runOne invokes the work function, converting a panic into a failed
// outcome so one bad unit cannot take down the whole wave.
func runOne(ctx context.Context, unitID string, work WorkFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unit worker panicked: %v", r)
		}
	}()
	return work(ctx, unitID)
}

// chunkIDs splits ids into consecutive chunks of at most size elements,
// preserving order. The final chunk may be short.
func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func summarize(outcomes []Outcome) Summary {
	summary := Summary{Total: len(outcomes), Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}
