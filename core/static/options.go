package static

import "log/slog"

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for request diagnostics. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithSource replaces the content source used to read file bodies.
func WithSource(src Source) Option {
	return func(h *Handler) {
		if src != nil {
			h.source = src
		}
	}
}
