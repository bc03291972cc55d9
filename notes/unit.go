package notes

import (
	"github.com/google/uuid"

	"visualnotes/outline"
)

// Unit is one independently-progressing segment of input text and its
// derived artifacts. Units are created by the splitting step and advance
// through the stage machine until Done or Failed.
//
// The store hands out copies; only Store.ApplyUpdate mutates the stored
// instance.
type Unit struct {
	// ID is the opaque unique identifier, assigned at creation, immutable.
	ID string
	// Order is the 1-based position among siblings from the same split,
	// used for stable display ordering only.
	Order int
	// OriginalText is the immutable source text assigned at creation.
	OriginalText string

	// Stage is the unit's current pipeline stage.
	Stage Stage
	// FailedPhase records which phase failed when Stage == StageFailed.
	FailedPhase Phase
	// IsProcessing is true exactly while an external call for this unit is
	// outstanding.
	IsProcessing bool

	// Structure is the extracted outline; set once structuring succeeds,
	// user-editable until the unit advances past StageReviewStructure.
	Structure *outline.Structure
	// GeneratedPrompt is the synthesized generation instruction; set by the
	// design step, user-editable until the unit advances past
	// StageReviewPrompt.
	GeneratedPrompt string
	// FinalImage is a self-contained data URI of the rendered image; set
	// once rendering succeeds.
	FinalImage string
	// Err is the last failure description; cleared when a phase is retried.
	Err string
}

// NewUnit creates a unit in StageCreated for one text segment.
func NewUnit(order int, text string) *Unit {
	return &Unit{
		ID:           uuid.NewString(),
		Order:        order,
		OriginalText: text,
		Stage:        StageCreated,
	}
}

// Clone returns a deep copy safe to hand outside the store.
func (u *Unit) Clone() *Unit {
	clone := *u
	clone.Structure = u.Structure.Clone()
	return &clone
}

// CanRetry reports whether the unit is in a failed state whose failed phase
// matches the given phase.
func (u *Unit) CanRetry(phase Phase) bool {
	return u.Stage == StageFailed && u.FailedPhase == phase
}

// StructureEditable reports whether the unit's outline may currently be edited.
func (u *Unit) StructureEditable() bool {
	return EditableStage(u.Stage, PhaseOrganize)
}

// PromptEditable reports whether the unit's generated prompt may currently
// be edited.
func (u *Unit) PromptEditable() bool {
	return EditableStage(u.Stage, PhasePaint)
}
