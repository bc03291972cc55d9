package notes

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Stage
		to      Stage
		allowed bool
	}{
		{name: "created to organizing", from: StageCreated, to: StageOrganizing, allowed: true},
		{name: "organizing to review structure", from: StageOrganizing, to: StageReviewStructure, allowed: true},
		{name: "organizing to failed", from: StageOrganizing, to: StageFailed, allowed: true},
		{name: "review structure to designing", from: StageReviewStructure, to: StageDesigning, allowed: true},
		{name: "designing to review prompt", from: StageDesigning, to: StageReviewPrompt, allowed: true},
		{name: "review prompt to painting", from: StageReviewPrompt, to: StagePainting, allowed: true},
		{name: "painting to done", from: StagePainting, to: StageDone, allowed: true},
		{name: "painting to failed", from: StagePainting, to: StageFailed, allowed: true},
		{name: "failed retries organizing", from: StageFailed, to: StageOrganizing, allowed: true},
		{name: "failed retries painting", from: StageFailed, to: StagePainting, allowed: true},

		{name: "no skipping to painting", from: StageCreated, to: StagePainting, allowed: false},
		{name: "no skipping to done", from: StageOrganizing, to: StageDone, allowed: false},
		{name: "no moving backward", from: StageReviewPrompt, to: StageReviewStructure, allowed: false},
		{name: "done is terminal", from: StageDone, to: StageOrganizing, allowed: false},
		{name: "created cannot fail", from: StageCreated, to: StageFailed, allowed: false},
		{name: "review structure cannot fail", from: StageReviewStructure, to: StageFailed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestStageString(t *testing.T) {
	stages := map[Stage]string{
		StageCreated:         "created",
		StageOrganizing:      "organizing",
		StageReviewStructure: "review_structure",
		StageDesigning:       "designing",
		StageReviewPrompt:    "review_prompt",
		StagePainting:        "painting",
		StageDone:            "done",
		StageFailed:          "failed",
		Stage(99):            "unknown",
	}
	for stage, want := range stages {
		if got := stage.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", stage, got, want)
		}
	}
}

func TestEditableStage(t *testing.T) {
	if !EditableStage(StageReviewStructure, PhaseOrganize) {
		t.Error("structure should be editable during structure review")
	}
	if EditableStage(StageReviewPrompt, PhaseOrganize) {
		t.Error("structure must be locked after advancing past structure review")
	}
	if !EditableStage(StageReviewPrompt, PhasePaint) {
		t.Error("prompt should be editable during prompt review")
	}
	if EditableStage(StageDone, PhasePaint) {
		t.Error("prompt must be locked once the unit is done")
	}
	if EditableStage(StageOrganizing, PhaseOrganize) {
		t.Error("nothing is editable while a call is outstanding")
	}
}

func TestUnitRetryAndEditHelpers(t *testing.T) {
	unit := NewUnit(1, "原文")
	if unit.ID == "" {
		t.Fatal("NewUnit should assign an id")
	}
	if unit.Stage != StageCreated {
		t.Fatalf("new unit stage = %v, want created", unit.Stage)
	}

	unit.Stage = StageFailed
	unit.FailedPhase = PhasePaint
	if unit.CanRetry(PhaseOrganize) {
		t.Error("paint-failed unit should not be retryable for organize")
	}
	if !unit.CanRetry(PhasePaint) {
		t.Error("paint-failed unit should be retryable for paint")
	}

	unit.Stage = StageReviewStructure
	if !unit.StructureEditable() || unit.PromptEditable() {
		t.Error("only the structure is editable during structure review")
	}
}
