package logging

import (
	"time"

	"go.uber.org/zap"
)

// Field helpers for the pipeline domain. Using these instead of ad-hoc
// zap.String calls keeps the key names consistent across packages so unit
// progress can be traced through the log stream.

// UnitField returns the standard field for a note unit id.
func UnitField(unitID string) zap.Field {
	return zap.String("unit_id", unitID)
}

// PhaseField returns the standard field for a pipeline phase name.
func PhaseField(phase string) zap.Field {
	return zap.String("phase", phase)
}

// StageField returns the standard field for a unit's current stage.
func StageField(stage string) zap.Field {
	return zap.String("stage", stage)
}

// AttemptField returns the standard field for an external-call attempt number.
func AttemptField(attempt int) zap.Field {
	return zap.Int("attempt", attempt)
}

// DurationField returns the standard field for an operation duration.
func DurationField(d time.Duration) zap.Field {
	return zap.Duration("duration", d)
}

// UnitFields bundles the fields every per-unit log entry should carry.
func UnitFields(unitID, phase string) []zap.Field {
	return []zap.Field{
		UnitField(unitID),
		PhaseField(phase),
	}
}
