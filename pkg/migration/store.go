package migration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// StringListStore is the persistence capability behind a CompletionStore.
// Implementations live in package kv.
type StringListStore interface {
	// GetStringList returns the list stored under key. ok is false when the
	// key does not exist.
	GetStringList(ctx context.Context, key string) (values []string, ok bool, err error)

	// SetStringList replaces the list stored under key.
	SetStringList(ctx context.Context, key string, values []string) error
}

// CompletionStore records which migrations have completed.
//
// The set is read from the backend once and cached; every mutation is
// written through before it returns. An unreadable or corrupt backend is
// treated as an empty set, so migrations run again rather than not at all.
//
// A failed read is not cached. The next write is built from the empty set and
// replaces whatever the backend held under the key, including IDs recorded by
// other groups sharing it; such a write is logged at error level.
type CompletionStore struct {
	backend StringListStore
	key     string
	logger  *slog.Logger

	cache      map[string]struct{}
	loaded     bool
	readFailed bool
}

// NewCompletionStore creates a store over backend.
// Only WithKey and WithLogger apply.
func NewCompletionStore(backend StringListStore, opts ...Option) *CompletionStore {
	o := newOptions(opts)
	return &CompletionStore{
		backend: backend,
		key:     o.key,
		logger:  o.logger,
	}
}

// Key returns the storage key of the completed set.
func (s *CompletionStore) Key() string {
	return s.key
}

// IsComplete reports whether id has been recorded as complete.
func (s *CompletionStore) IsComplete(ctx context.Context, id ID) bool {
	_, ok := s.load(ctx)[id.String()]
	return ok
}

// MarkComplete records id as complete. Marking a completed id is a no-op.
func (s *CompletionStore) MarkComplete(ctx context.Context, id ID) error {
	set := s.snapshot(ctx)
	if _, ok := set[id.String()]; ok {
		return nil
	}
	set[id.String()] = struct{}{}
	return s.save(ctx, set)
}

// Unmark removes id from the completed set. Removing an absent id is a no-op.
func (s *CompletionStore) Unmark(ctx context.Context, id ID) error {
	set := s.snapshot(ctx)
	if _, ok := set[id.String()]; !ok {
		return nil
	}
	delete(set, id.String())
	return s.save(ctx, set)
}

// Clear empties the completed set and persists the empty state.
func (s *CompletionStore) Clear(ctx context.Context) error {
	return s.save(ctx, map[string]struct{}{})
}

// Completed returns the completed IDs, sorted.
func (s *CompletionStore) Completed(ctx context.Context) []ID {
	set := s.load(ctx)
	ids := make([]ID, 0, len(set))
	for _, v := range sortedKeys(set) {
		if id, err := ParseID(v); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// snapshot returns a copy of the completed set that the caller may mutate.
func (s *CompletionStore) snapshot(ctx context.Context) map[string]struct{} {
	return cloneSet(s.load(ctx))
}

// load returns the cached set, reading the backend on first use.
// The returned map must not be modified.
func (s *CompletionStore) load(ctx context.Context) map[string]struct{} {
	if s.loaded {
		return s.cache
	}
	values, ok, err := s.backend.GetStringList(ctx, s.key)
	if err != nil {
		s.logger.Warn("completed migrations unreadable, treating as empty",
			slog.String("key", s.key), slog.Any("error", err))
		s.readFailed = true
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(values))
	if ok {
		for _, v := range values {
			if v != "" {
				set[v] = struct{}{}
			}
		}
	}
	s.cache = set
	s.loaded = true
	return s.cache
}

// save writes set through to the backend and replaces the cache.
func (s *CompletionStore) save(ctx context.Context, set map[string]struct{}) error {
	if s.readFailed && !s.loaded {
		s.logger.Error("overwriting unreadable completed migrations",
			slog.String("key", s.key), slog.Int("count", len(set)))
	}
	if err := s.backend.SetStringList(ctx, s.key, sortedKeys(set)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.cache = set
	s.loaded = true
	s.readFailed = false
	return nil
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
