package pck

import "log/slog"

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets a logger for debug output during mutations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}
