package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps all lists in a single JSON document:
//
//	{
//	  "completed-migrations": ["AfricanSwallowMigration", "FlamingoMigration"]
//	}
//
// Writes go to a temporary file that is synced and renamed over the
// original, so a crash leaves either the old or the new document.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a store backed by the JSON document at path.
// The file and its directory are created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the document.
func (f *File) Path() string {
	return f.path
}

// GetStringList returns the list stored under key.
func (f *File) GetStringList(_ context.Context, key string) ([]string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, false, err
	}
	values, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return values, true, nil
}

// SetStringList replaces the list stored under key, keeping other keys.
// A document that cannot be decoded is replaced.
func (f *File) SetStringList(_ context.Context, key string, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		doc = map[string][]string{}
	}
	doc[key] = cloneList(values)
	if doc[key] == nil {
		doc[key] = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", f.path, err)
	}
	return writeFileAtomic(f.path, buf.Bytes(), 0o600)
}

// Reset removes the document.
func (f *File) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *File) read() (map[string][]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string][]string{}, nil
	}

	doc := map[string][]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return doc, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return err
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	// Some filesystems do not support syncing directories.
	_ = d.Sync()
	return nil
}
