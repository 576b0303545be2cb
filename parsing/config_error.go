package parsing

import (
	"fmt"
)

// ConfigError describes an invalid parser configuration.
type ConfigError struct {
	Kind Kind  // Kind of the problem.
	Err  error // Err contains the original error.
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// NewConfigError is a factory function for creating a *ConfigError.
func NewConfigError(kind Kind, err error) *ConfigError {
	return &ConfigError{
		Kind: kind,
		Err:  err,
	}
}
