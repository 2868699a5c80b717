package settings

import (
	"errors"
	"fmt"
)

// Errors returned by the settings service and stores.
var (
	ErrNotStarted     = errors.New("settings service not started")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrTypeMismatch   = errors.New("setting type mismatch")
	ErrInvalidValue   = errors.New("invalid setting value")
	ErrMissingValue   = errors.New("required setting has no value")
	ErrNotFound       = errors.New("setting value not found")
)

// ConfigurationError reports a component that could not be configured with
// a setting value.
type ConfigurationError struct {
	Key   string
	Owner string
	Cause error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("setting %s: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("setting %s rejected by %s: %v", e.Key, e.Owner, e.Cause)
}

// Unwrap returns the cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

func invalidValue(key, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidValue, key, fmt.Sprintf(format, args...))
}
