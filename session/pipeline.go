package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"visualnotes/logging"
	"visualnotes/notes"
	"visualnotes/promptgen"
	"visualnotes/scheduler"
)

// RunSplit divides raw input into note units and installs them as the
// current batch, discarding any previous batch. The splitter guarantees at
// least one unit for non-empty input.
func (s *Session) RunSplit(ctx context.Context, text string) ([]*notes.Unit, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("session: input text is empty")
	}

	segments := s.splitter.Split(ctx, text)
	units := make([]*notes.Unit, len(segments))
	for i, segment := range segments {
		units[i] = notes.NewUnit(i+1, segment)
	}
	s.store.Replace(units)

	s.logger.Info("batch created", zap.Int("units", len(units)))
	return s.store.Units(), nil
}

// RunBatchOrganize runs the structuring phase for every unit awaiting it,
// all concurrently. Each unit fails or advances independently; the returned
// summary reports per-unit outcomes.
func (s *Session) RunBatchOrganize(ctx context.Context) (scheduler.Summary, error) {
	ids := s.idsInStage(notes.StageCreated)
	if len(ids) == 0 {
		return scheduler.Summary{}, fmt.Errorf("session: no units awaiting structuring")
	}
	return s.sched.RunAll(ctx, ids, s.organizeOne), nil
}

// RunBatchDesign synthesizes the generation instruction for every unit
// whose structure has been reviewed. The step is synchronous and pure;
// it performs no external calls and cannot fail per unit.
func (s *Session) RunBatchDesign() (int, error) {
	units := s.store.UnitsInStage(notes.StageReviewStructure)
	if len(units) == 0 {
		return 0, fmt.Errorf("session: no units awaiting prompt synthesis")
	}

	// No external call happens here, so units pass through StageDesigning
	// inside a single store update and IsProcessing never flips.
	style := s.styles.Resolve(s.settings.StyleID)
	for _, unit := range units {
		_ = s.store.ApplyUpdate(unit.ID, func(u *notes.Unit) {
			u.Stage = notes.StageDesigning
			u.GeneratedPrompt = promptgen.Synthesize(u.Structure, s.settings, style)
			u.Stage = notes.StageReviewPrompt
		})
	}

	s.logger.Info("prompts synthesized", zap.Int("units", len(units)))
	return len(units), nil
}

// RunBatchPaint runs the rendering phase for every unit whose prompt has
// been reviewed. Units render in fixed-size chunks with a hard barrier
// between chunks; a failed unit never blocks its siblings.
func (s *Session) RunBatchPaint(ctx context.Context) (scheduler.Summary, error) {
	ids := s.idsInStage(notes.StageReviewPrompt)
	if len(ids) == 0 {
		return scheduler.Summary{}, fmt.Errorf("session: no units awaiting rendering")
	}
	return s.sched.RunChunks(ctx, ids, s.paintOne), nil
}

// RetryUnit re-runs exactly the failed phase of one failed unit. The
// surviving artifacts from earlier phases are kept: an organize retry
// replaces the structure, a paint retry reuses the locked prompt.
func (s *Session) RetryUnit(ctx context.Context, id string) error {
	unit, ok := s.store.Unit(id)
	if !ok {
		return fmt.Errorf("session: no unit with id %s", id)
	}

	switch {
	case unit.CanRetry(notes.PhaseOrganize):
		return s.organizeOne(ctx, id)
	case unit.CanRetry(notes.PhasePaint):
		return s.paintOne(ctx, id)
	default:
		return fmt.Errorf("session: unit %s is in stage %s and cannot be retried", id, unit.Stage)
	}
}

// organizeOne runs the structuring call for one unit and records the result.
// A transport failure fails the unit's organize phase; a malformed response
// was already converted to a fallback outline by the extractor and advances
// the unit normally.
func (s *Session) organizeOne(ctx context.Context, id string) error {
	unit, err := s.beginPhase(id, notes.StageOrganizing)
	if err != nil {
		return err
	}

	structure, err := s.extractor.Extract(ctx, unit.OriginalText)
	updateErr := s.store.ApplyUpdate(id, func(u *notes.Unit) {
		u.IsProcessing = false
		if err != nil {
			u.Stage = notes.StageFailed
			u.FailedPhase = notes.PhaseOrganize
			u.Err = err.Error()
			return
		}
		u.Structure = structure
		u.Stage = notes.StageReviewStructure
	})
	if updateErr != nil {
		return updateErr
	}
	if err != nil {
		s.logger.Warn("structuring failed", append(
			logging.UnitFields(id, string(notes.PhaseOrganize)),
			logging.StageField(notes.StageFailed.String()),
			zap.Error(err),
		)...)
	}
	return err
}

// paintOne runs the rendering call for one unit and records the result.
// Rendering has no content fallback: exhausted retries fail the unit's
// paint phase with the last error.
func (s *Session) paintOne(ctx context.Context, id string) error {
	unit, err := s.beginPhase(id, notes.StagePainting)
	if err != nil {
		return err
	}

	image, err := s.renderer.Render(ctx, unit.GeneratedPrompt, s.settings.StyleID)
	updateErr := s.store.ApplyUpdate(id, func(u *notes.Unit) {
		u.IsProcessing = false
		if err != nil {
			u.Stage = notes.StageFailed
			u.FailedPhase = notes.PhasePaint
			u.Err = err.Error()
			return
		}
		u.FinalImage = image
		u.Stage = notes.StageDone
	})
	if updateErr != nil {
		return updateErr
	}
	if err != nil {
		s.logger.Warn("rendering failed", append(
			logging.UnitFields(id, string(notes.PhasePaint)),
			logging.StageField(notes.StageFailed.String()),
			zap.Error(err),
		)...)
	}
	return err
}

// idsInStage returns the ids of the units currently in the given stage,
// in display order.
func (s *Session) idsInStage(stage notes.Stage) []string {
	units := s.store.UnitsInStage(stage)
	ids := make([]string, 0, len(units))
	for _, unit := range units {
		ids = append(ids, unit.ID)
	}
	return ids
}

// beginPhase flips one unit into the in-flight stage and clears any stale
// error, then returns a snapshot for the external call. It runs as the
// first action of the unit's own task, so IsProcessing is true only while
// that task actually has a call outstanding. Units queued behind earlier
// chunks keep their review stage until their chunk starts.
func (s *Session) beginPhase(id string, inFlight notes.Stage) (*notes.Unit, error) {
	err := s.store.ApplyUpdate(id, func(u *notes.Unit) {
		u.Stage = inFlight
		u.IsProcessing = true
		u.Err = ""
	})
	if err != nil {
		return nil, err
	}
	unit, ok := s.store.Unit(id)
	if !ok {
		return nil, fmt.Errorf("session: no unit with id %s", id)
	}
	return unit, nil
}
