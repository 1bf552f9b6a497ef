package logstore

import "errors"

var (
	// ErrNotFound is returned by a KV when the key holds no value.
	ErrNotFound = errors.New("logstore: key not found")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("logstore: unknown backend")
	// ErrOpenBackend wraps failures to connect to or open a backend.
	ErrOpenBackend = errors.New("logstore: open backend")
)
