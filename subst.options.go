package subst

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring an Engine or a Template.
type Option func(*engineConfig)

// engineConfig holds the internal configuration shared by Engine and Template.
type engineConfig struct {
	logger         *zap.Logger
	storage        TemplateStorage
	maxSuggestions int
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		logger:         nil,
		storage:        nil,
		maxSuggestions: DefaultMaxSuggestions,
	}
}

// applyOptions builds a config from opts and fills in the Nop logger.
func applyOptions(opts []Option) *engineConfig {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = zap.NewNop()
	}
	return config
}

// WithLogger sets the logger.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithStorage sets the backing store an Engine loads and saves templates with.
// Ignored by Parse.
// Default: nil (registry only)
func WithStorage(storage TemplateStorage) Option {
	return func(c *engineConfig) {
		c.storage = storage
	}
}

// WithMaxSuggestions sets how many "did you mean" names a missing parameter
// error carries. Use 0 to disable suggestions.
// Default: 3
func WithMaxSuggestions(n int) Option {
	return func(c *engineConfig) {
		if n >= 0 {
			c.maxSuggestions = n
		}
	}
}
