package hobbylog

import (
	"time"

	"github.com/okian/hobbyseeds/pkg/logger"
)

// Option applies a configuration option to the Book.
type Option func(*Book)

// WithClock overrides the time source stamped on new entries.
func WithClock(now func() time.Time) Option {
	return func(b *Book) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the logger used by the Book.
func WithLogger(l logger.Logger) Option {
	return func(b *Book) {
		if l != nil {
			b.log = l
		}
	}
}
