package nn

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is the sentinel wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid spectral convolution configuration")

// ConfigError reports an invalid construction or reconfiguration argument.
//
// errors.Is(err, ErrInvalidConfig) holds for every ConfigError.
type ConfigError struct {
	Field  string // Offending setting (e.g., "OutChannels", "NModes")
	Detail string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Detail)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErrorf(field, format string, args ...any) error {
	return errors.WithStack(&ConfigError{Field: field, Detail: fmt.Sprintf(format, args...)})
}
