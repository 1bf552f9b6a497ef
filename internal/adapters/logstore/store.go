package logstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/hobbyseeds/internal/domain/hobbylog"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/pkg/logger"
	"github.com/okian/hobbyseeds/pkg/metrics"
)

// DefaultKey is where the log is stored unless overridden.
const DefaultKey = "@hobby-seeds/hobby-log"

// Store reads and writes the hobby log document. It satisfies hobbylog.Store.
type Store struct {
	kv      KV
	key     string
	backend string
	log     logger.Logger
}

var _ hobbylog.Store = (*Store)(nil)

// New creates a Store over kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, key: DefaultKey, backend: BackendMemory}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("logstore")
	}
	return s
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Backend returns the backend name used in metrics.
func (s *Store) Backend() string { return s.backend }

// Read loads the log. A missing key and an undecodable document both report
// hobbylog.ErrAbsent; the latter is logged.
func (s *Store) Read(ctx context.Context) (model.HobbyLog, error) {
	defer s.observe("read", time.Now())

	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return model.HobbyLog{}, hobbylog.ErrAbsent
	}
	if err != nil {
		metrics.RecordLogStoreError("read")
		return model.HobbyLog{}, fmt.Errorf("logstore read: %w", err)
	}

	var l model.HobbyLog
	if err := json.Unmarshal(raw, &l); err != nil {
		metrics.RecordLogStoreError("decode")
		s.log.Warn(ctx, "discarding malformed hobby log",
			logger.String("key", s.key), logger.Int("bytes", len(raw)), logger.Error(err))
		return model.HobbyLog{}, fmt.Errorf("%w: %w", hobbylog.ErrAbsent, err)
	}
	return l, nil
}

// Write replaces the stored log.
func (s *Store) Write(ctx context.Context, l model.HobbyLog) error {
	defer s.observe("write", time.Now())

	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("logstore encode: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		metrics.RecordLogStoreError("write")
		return fmt.Errorf("logstore write: %w", err)
	}
	return nil
}

// Clear removes the stored log.
func (s *Store) Clear(ctx context.Context) error {
	defer s.observe("clear", time.Now())

	if err := s.kv.Delete(ctx, s.key); err != nil {
		metrics.RecordLogStoreError("clear")
		return fmt.Errorf("logstore clear: %w", err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error { return s.kv.Close() }

func (s *Store) observe(op string, start time.Time) {
	metrics.RecordLogStoreLatency(s.backend, op, float64(time.Since(start).Microseconds())/1000)
}
