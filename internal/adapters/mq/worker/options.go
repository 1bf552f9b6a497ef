package worker

import (
	"github.com/okian/hobbyseeds/internal/domain/dedupe"
	"github.com/okian/hobbyseeds/pkg/logger"
)

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithDeduper lets the writer forget request ids of failed appends so the
// client can retry them.
func WithDeduper(d dedupe.Deduper) Option {
	return func(w *Writer) {
		w.deduper = d
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
