package engine

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound is returned when the seeker id cannot be resolved by
// the profile store. It fails the whole request.
var ErrProfileNotFound = errors.New("seeker profile not found")

// ConfigError reports invalid engine configuration (weights, limits, blend).
// It is always raised before any matching work starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func newConfigError(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
