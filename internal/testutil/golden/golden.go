// Package golden compares command output with files under testdata.
// Run tests with -update to rewrite them.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var Update = flag.Bool("update", false, "update golden files")

// TestdataDir returns the testdata directory next to the calling test file.
func TestdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(1)
	require.True(t, ok, "runtime.Caller failed")
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// Assert compares got with testdata/<name>.golden, or rewrites the file
// when -update is set.
func Assert(t *testing.T, dir, name, got string) {
	t.Helper()
	if *Update {
		Write(t, dir, name, got)
		return
	}
	require.Equal(t, Read(t, dir, name), got, "golden %s differs; rerun with -update to accept", name)
}

// Read returns the golden file's content, empty when it does not exist.
func Read(t *testing.T, dir, name string) string {
	t.Helper()
	path := goldenPath(t, dir, name)
	data, err := os.ReadFile(path) //nolint:gosec // testdata path controlled by test
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err, "read golden %s", path)
	return string(data)
}

func Write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := goldenPath(t, dir, name)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "write golden %s", path)
}

func goldenPath(t *testing.T, dir, name string) string {
	t.Helper()
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		t.Fatalf("invalid golden name %q", name)
	}
	return filepath.Join(dir, name+".golden")
}
