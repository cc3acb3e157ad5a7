// Package manifest loads shell-command migrations from a YAML file:
//
//	migrations:
//	  - id: create-data-dir
//	    run: mkdir -p data
//	  - id: seed-cache
//	    run: ./scripts/seed.sh
//	    os: [linux, darwin]
//	    env:
//	      CACHE_DIR: data/cache
//
// Entries run in file order. An entry is left out of the group when it is
// disabled or when os is set and does not name the current GOOS.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/monarch/pkg/migration"
)

// goos is the operating system entries are filtered against.
var goos = runtime.GOOS

type Entry struct {
	ID       string            `yaml:"id"`
	Run      string            `yaml:"run"`
	OS       []string          `yaml:"os,omitempty"`
	Disabled bool              `yaml:"disabled,omitempty"`
	Env      map[string]string `yaml:"env,omitempty"`
}

// Enabled reports whether the entry applies on this machine.
func (e Entry) Enabled() bool {
	if e.Disabled {
		return false
	}
	return len(e.OS) == 0 || slices.Contains(e.OS, goos)
}

type Manifest struct {
	Migrations []Entry `yaml:"migrations"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest YAML. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	seen := make(map[string]int, len(m.Migrations))
	for i, e := range m.Migrations {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("migration at index %d missing id", i)
		}
		if prev, ok := seen[e.ID]; ok {
			return fmt.Errorf("migration %s declared twice (index %d and %d)", e.ID, prev, i)
		}
		seen[e.ID] = i
		if strings.TrimSpace(e.Run) == "" {
			return fmt.Errorf("migration %s missing run", e.ID)
		}
	}
	return nil
}

// Group validates m and returns its enabled entries as shell tasks, with env
// registered as their dependency.
func (m *Manifest) Group(env *Env) (*migration.Group, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	g := migration.NewGroup()
	for _, e := range m.Migrations {
		g.AddIf(e.Enabled(), &ShellTask{
			id:      migration.NewID(e.ID),
			Command: e.Run,
			Env:     e.Env,
		})
	}
	if env == nil {
		env = &Env{}
	}
	return g.WithDependency(env), nil
}
