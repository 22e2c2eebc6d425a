// Package app provides the application context and dependency management
// for the alekit CLI. It centralizes configuration, logging and the preset
// store, and hands them to commands through appcontext.Interface.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/internal/cache"
	"github.com/agentstation/alekit/internal/presets"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
)

// App represents the alekit application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config

	logger       *zerolog.Logger
	customLogger bool

	// Preset store (lazy-initialized, rebuilt when the preset dir changes)
	mu      sync.Mutex
	cache   *cache.Cache
	presets *presets.Store
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config
// file locations; options may replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		cache:   cache.New(constants.CacheTTL, constants.CacheCleanupInterval),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// KeyColumns returns the configured merge key columns.
func (a *App) KeyColumns() []string {
	return a.config.KeyColumns
}

// BatchSuffix returns the configured batch output suffix.
func (a *App) BatchSuffix() string {
	return a.config.BatchSuffix
}

// Workers returns the configured batch worker count.
func (a *App) Workers() int {
	return a.config.Workers
}

// Presets returns the preset store for the configured directory. Stores
// share one cache of parsed macros.
func (a *App) Presets() *presets.Store {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.presets == nil || a.presets.Dir() != a.config.PresetDir {
		a.presets = presets.New(a.config.PresetDir,
			presets.WithCache(a.cache),
			presets.WithLogger(a.logger),
		)
	}
	return a.presets
}

// Shutdown releases the application's resources.
func (a *App) Shutdown(ctx context.Context) error {
	stats := a.cache.GetStats()
	a.logger.Debug().
		Int("cached", stats.ItemCount).
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Msg("Shutting down")
	a.cache.Clear()
	return ctx.Err()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config cannot be nil")
		}
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger. Flag parsing does not replace it.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger cannot be nil")
		}
		a.logger = logger
		a.customLogger = true
		return nil
	}
}
