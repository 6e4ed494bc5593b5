package di

import "log/slog"

// DefaultMaxDepth bounds how deep Plan follows declarations before giving up
// with a CycleError.
const DefaultMaxDepth = 64

// config holds registry-wide settings shared by every plan and invocation.
type config struct {
	logger   *slog.Logger
	maxDepth int
	observer Observer
}

func defaultConfig() config {
	return config{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
		observer: NoopObserver{},
	}
}

// Option configures a Registry.
type Option func(*config)

// WithLogger sets the logger used for lifecycle debug output. Providers reach
// a slot-scoped child of it through Logger(ctx). A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxDepth sets the recursion bound used while building plans. Values
// below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithObserver installs an Observer notified of every enter and exit. A nil
// observer is ignored.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}
