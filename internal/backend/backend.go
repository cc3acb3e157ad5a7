// Package backend opens the completion store backend named by the config.
package backend

import (
	"context"
	"fmt"

	"github.com/bartekus/monarch/internal/config"
	"github.com/bartekus/monarch/pkg/kv"
	"github.com/bartekus/monarch/pkg/migration"
)

// Open returns the backend selected by cfg.Backend together with a function
// that releases it. The close function is never nil.
func Open(ctx context.Context, cfg *config.Config) (migration.StringListStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), noop, nil
	case config.BackendFile, "":
		return kv.NewFile(cfg.File.Path), noop, nil
	case config.BackendBolt:
		store, err := kv.OpenBolt(cfg.Bolt.Path, cfg.Bolt.Bucket)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.BackendRedis:
		store, err := kv.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.BackendNATS:
		store, err := kv.ConnectNATS(ctx, cfg.NATS.URL, cfg.NATS.Bucket)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
