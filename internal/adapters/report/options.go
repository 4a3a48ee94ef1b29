package report

import "github.com/okian/quiver/pkg/logger"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithFormat selects the encoding: "text" (default) or "json".
func WithFormat(format string) Option {
	return func(w *Writer) {
		if format != "" {
			w.format = format
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
