package logstore

import "github.com/okian/hobbyseeds/pkg/logger"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithBackendName labels metrics with the backend in use.
func WithBackendName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.backend = name
		}
	}
}

// WithLogger sets the logger used by the Store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
