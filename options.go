package alekit

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/macro"
)

// Option configures a macro run.
type Option func(*config) error

type config struct {
	logger   *zerolog.Logger
	stepHook func(macro.StepResult)
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *config) macroOptions() []macro.Option {
	var opts []macro.Option
	if c.logger != nil {
		opts = append(opts, macro.WithLogger(c.logger))
	}
	if c.stepHook != nil {
		opts = append(opts, macro.WithStepHook(c.stepHook))
	}
	return opts
}

// WithLogger sets the logger that failed rules are reported to.
// The package default logger is used otherwise.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithStepHook registers a function called after every macro rule.
func WithStepHook(fn func(macro.StepResult)) Option {
	return func(c *config) error {
		c.stepHook = fn
		return nil
	}
}
