package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevelString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected zapcore.Level
	}{
		{name: "debug", input: "debug", expected: zapcore.DebugLevel},
		{name: "info", input: "info", expected: zapcore.InfoLevel},
		{name: "warn", input: "warn", expected: zapcore.WarnLevel},
		{name: "warning alias", input: "warning", expected: zapcore.WarnLevel},
		{name: "error", input: "error", expected: zapcore.ErrorLevel},
		{name: "fatal", input: "fatal", expected: zapcore.FatalLevel},
		{name: "uppercase", input: "ERROR", expected: zapcore.ErrorLevel},
		{name: "surrounding whitespace", input: "  info  ", expected: zapcore.InfoLevel},
		{name: "invalid falls back to default", input: "verbose", expected: zapcore.WarnLevel},
		{name: "empty falls back to default", input: "", expected: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLogLevelString(tt.input, zapcore.WarnLevel)
			if got != tt.expected {
				t.Errorf("ParseLogLevelString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLogLevelFromEnv(t *testing.T) {
	t.Setenv("VISUALNOTES_TEST_LOG_LEVEL", "debug")
	if got := ParseLogLevel("VISUALNOTES_TEST_LOG_LEVEL", zapcore.InfoLevel); got != zapcore.DebugLevel {
		t.Errorf("ParseLogLevel = %v, want debug", got)
	}
	if got := ParseLogLevel("VISUALNOTES_TEST_LOG_LEVEL_UNSET", zapcore.InfoLevel); got != zapcore.InfoLevel {
		t.Errorf("ParseLogLevel unset = %v, want info default", got)
	}
}
