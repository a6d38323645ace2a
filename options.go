package hernia

import (
	"errors"

	"go.uber.org/zap"
)

// Option configures a root container at construction time.
type Option func(*Container) error

// WithLogger routes the container's debug output through the given logger.
// Without this option the container stays silent. Children inherit the
// root's logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		c.log = log
		return nil
	}
}

// WithName names the root container in log output. Children append a
// numeric path segment per nesting level.
func WithName(name string) Option {
	return func(c *Container) error {
		if name == "" {
			return errors.New("name must not be empty")
		}
		c.name = name
		return nil
	}
}
