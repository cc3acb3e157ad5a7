// Package kv provides string-list stores used to persist completed
// migrations.
//
// Every store maps a key to a list of strings and satisfies
// migration.StringListStore:
//
//   - Memory: process-local, for tests and embedding.
//   - File: a JSON document on disk, written atomically.
//   - Bolt: a bbolt database file.
//   - Redis: one Redis set per key.
//   - NATS: a JetStream key-value bucket.
//
// All stores are safe for concurrent use. A missing key is reported with
// ok == false and a nil error; an unreadable value is reported as an error.
package kv
