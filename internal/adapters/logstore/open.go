package logstore

import (
	"context"
	"fmt"
)

// Config selects and configures a backend for Open.
type Config struct {
	Backend     string
	Key         string
	BadgerDir   string
	Redis       RedisConfig
	SQLitePath  string
	PostgresDSN string
}

// Open creates the configured backend and a Store over it.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	var (
		kv  KV
		err error
	)
	switch cfg.Backend {
	case BackendMemory, "":
		kv = NewMemoryKV()
	case BackendBadger:
		kv, err = OpenBadger(cfg.BadgerDir)
	case BackendRedis:
		kv, err = OpenRedis(ctx, cfg.Redis)
	case BackendSQLite:
		kv, err = OpenSQLite(cfg.SQLitePath)
	case BackendPostgres:
		kv, err = OpenPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	name := cfg.Backend
	if name == "" {
		name = BackendMemory
	}
	all := append([]Option{WithKey(cfg.Key), WithBackendName(name)}, opts...)
	return New(kv, all...), nil
}
