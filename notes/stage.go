// Package notes owns the note unit data model: the per-unit stage machine,
// the in-memory store of in-flight units, and the session-scoped visual
// settings. It performs no I/O.
package notes

// Stage is the state a note unit occupies in the pipeline.
// Stages are strictly ordered; a unit never moves backward except through
// the explicit retry of a single failed phase.
type Stage int

const (
	// StageCreated is the initial stage after splitting.
	StageCreated Stage = iota
	// StageOrganizing means a structuring call is outstanding.
	StageOrganizing
	// StageReviewStructure means the outline is ready for user review/edits.
	StageReviewStructure
	// StageDesigning is the transient synchronous prompt synthesis step.
	StageDesigning
	// StageReviewPrompt means the generated prompt is ready for review/edits.
	StageReviewPrompt
	// StagePainting means a rendering call is outstanding.
	StagePainting
	// StageDone means the final image is available.
	StageDone
	// StageFailed is a terminal-per-phase failure; the unit's FailedPhase
	// records which phase to re-enter on retry. Sibling units are unaffected.
	StageFailed
)

// String returns the stage name used in logs and error messages.
func (s Stage) String() string {
	switch s {
	case StageCreated:
		return "created"
	case StageOrganizing:
		return "organizing"
	case StageReviewStructure:
		return "review_structure"
	case StageDesigning:
		return "designing"
	case StageReviewPrompt:
		return "review_prompt"
	case StagePainting:
		return "painting"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Phase names one stage-to-stage transition that requires an external call.
type Phase string

const (
	// PhaseOrganize is the structuring phase (Created/Failed → Organizing).
	PhaseOrganize Phase = "organize"
	// PhasePaint is the rendering phase (ReviewPrompt/Failed → Painting).
	PhasePaint Phase = "paint"
)

// CanTransition reports whether moving a unit from one stage to another is
// legal. Failed→Organizing and Failed→Painting are allowed so a caller can
// retry exactly the failed phase; which one is legal for a concrete unit
// additionally depends on its FailedPhase (see Unit.CanRetry).
func CanTransition(from, to Stage) bool {
	switch from {
	case StageCreated:
		return to == StageOrganizing
	case StageOrganizing:
		return to == StageReviewStructure || to == StageFailed
	case StageReviewStructure:
		return to == StageDesigning
	case StageDesigning:
		return to == StageReviewPrompt
	case StageReviewPrompt:
		return to == StagePainting
	case StagePainting:
		return to == StageDone || to == StageFailed
	case StageFailed:
		return to == StageOrganizing || to == StagePainting
	default:
		return false
	}
}

// Retryable reports whether a unit in the given stage can be retried at
// all. Which phase re-runs is decided by the unit's FailedPhase.
func Retryable(stage Stage) bool {
	return stage == StageFailed
}

// EditableStage reports whether a field belonging to the given phase's
// artifacts may be edited at the given stage. Structure edits are only
// allowed while reviewing the structure; prompt edits only while reviewing
// the prompt. Once a unit advances, the earlier artifact is locked.
func EditableStage(stage Stage, phase Phase) bool {
	switch phase {
	case PhaseOrganize:
		return stage == StageReviewStructure
	case PhasePaint:
		return stage == StageReviewPrompt
	default:
		return false
	}
}
