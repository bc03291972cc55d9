package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeEnvFileMissing = "ENV_FILE_MISSING"
	ErrCodeMissingAuth    = "MISSING_AUTH"
	ErrCodeInvalidBaseURL = "INVALID_BASE_URL"
	ErrCodeMissingConfig  = "MISSING_CONFIG"
)

// ErrMissingAuth returns an error for missing API credentials.
func ErrMissingAuth(service string) *ConfigError {
	var action string
	switch service {
	case "openai":
		action = "Set OPENAI_API_KEY in your .env file (or point OPENAI_API_BASE_URL at a keyed proxy)"
	case "image":
		action = "Set IMAGE_API_KEY in your .env file"
	default:
		action = fmt.Sprintf("Set the required API key for %s in your .env file", service)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication credentials for %s", service),
		Action:  action,
	}
}

// ErrInvalidBaseURL returns an error for a malformed API base URL.
func ErrInvalidBaseURL(envVar, url, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidBaseURL,
		Message: fmt.Sprintf("Invalid %s value '%s': %s", envVar, url, reason),
		Action:  fmt.Sprintf("Set %s to a valid http(s) URL", envVar),
	}
}

// ErrMissingConfig returns an error for a required configuration value that is empty.
func ErrMissingConfig(envVar string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration value %s", envVar),
		Action:  fmt.Sprintf("Set %s in your .env file", envVar),
	}
}

// TransportError indicates an external call that could not complete: network
// failure, HTTP error status, timeout, or cancellation. Transport errors are
// retried where policy allows and otherwise surfaced on the failed unit.
type TransportError struct {
	Service string // which external capability failed ("completion", "image")
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err as a TransportError for the named service.
func NewTransportError(service string, err error) *TransportError {
	return &TransportError{Service: service, Err: err}
}

// MalformedResponseError indicates an external call that completed but whose
// payload failed shape validation. Structuring absorbs these into a fallback
// outline; rendering treats them identically to transport failures.
type MalformedResponseError struct {
	Service string
	Reason  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed response: %s", e.Service, e.Reason)
}

// NewMalformedResponseError builds a MalformedResponseError for the named service.
func NewMalformedResponseError(service, reason string) *MalformedResponseError {
	return &MalformedResponseError{Service: service, Reason: reason}
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMalformedResponse reports whether err is (or wraps) a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
