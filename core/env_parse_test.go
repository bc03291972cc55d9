package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		setEnv       bool
		defaultValue string
		expected     string
	}{
		{
			name:         "unset variable returns default",
			setEnv:       false,
			defaultValue: "fallback",
			expected:     "fallback",
		},
		{
			name:         "empty variable returns default",
			envValue:     "",
			setEnv:       true,
			defaultValue: "fallback",
			expected:     "fallback",
		},
		{
			name:         "set variable returns value",
			envValue:     "configured",
			setEnv:       true,
			defaultValue: "fallback",
			expected:     "configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "VISUALNOTES_TEST_STRING"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			}
			result := GetEnvOrDefault(key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("GetEnvOrDefault(%q) = %q, want %q", key, result, tt.expected)
			}
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		setEnv       bool
		defaultValue int
		expected     int
	}{
		{
			name:         "unset returns default",
			setEnv:       false,
			defaultValue: 42,
			expected:     42,
		},
		{
			name:         "valid integer is parsed",
			envValue:     "7",
			setEnv:       true,
			defaultValue: 42,
			expected:     7,
		},
		{
			name:         "negative integer is parsed",
			envValue:     "-3",
			setEnv:       true,
			defaultValue: 42,
			expected:     -3,
		},
		{
			name:         "garbage returns default",
			envValue:     "seven",
			setEnv:       true,
			defaultValue: 42,
			expected:     42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "VISUALNOTES_TEST_INT"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			}
			result := ParseIntEnv(key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("ParseIntEnv(%q) = %d, want %d", key, result, tt.expected)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		setEnv       bool
		defaultValue bool
		expected     bool
	}{
		{name: "unset returns default", setEnv: false, defaultValue: true, expected: true},
		{name: "true is parsed", envValue: "true", setEnv: true, expected: true},
		{name: "1 is parsed as true", envValue: "1", setEnv: true, expected: true},
		{name: "yes is parsed as true", envValue: "YES", setEnv: true, expected: true},
		{name: "off is parsed as false", envValue: "off", setEnv: true, defaultValue: true, expected: false},
		{name: "0 is parsed as false", envValue: "0", setEnv: true, defaultValue: true, expected: false},
		{name: "whitespace is trimmed", envValue: "  true  ", setEnv: true, expected: true},
		{name: "garbage returns default", envValue: "maybe", setEnv: true, defaultValue: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "VISUALNOTES_TEST_BOOL"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			}
			result := ParseBoolEnv(key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", key, result, tt.expected)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("VISUALNOTES_TEST_DURATION", "30")
	if got := ParseDurationEnv("VISUALNOTES_TEST_DURATION", 120); got != 30*time.Second {
		t.Errorf("ParseDurationEnv = %v, want %v", got, 30*time.Second)
	}
	if got := ParseDurationEnv("VISUALNOTES_TEST_DURATION_UNSET", 120); got != 120*time.Second {
		t.Errorf("ParseDurationEnv default = %v, want %v", got, 120*time.Second)
	}
}
