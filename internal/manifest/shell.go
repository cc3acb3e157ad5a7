package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/bartekus/monarch/pkg/migration"
)

// Env is the execution environment shared by every shell task of a group.
type Env struct {
	// WorkDir is the directory commands run in; empty means the current one.
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
	// Environ is the base environment, os.Environ() when nil.
	Environ []string
}

// ShellTask runs Command with sh -c. It resolves *Env from the group's
// dependencies.
type ShellTask struct {
	id      migration.ID
	Command string
	Env     map[string]string
}

// NewShellTask returns a task that runs command under id.
func NewShellTask(id migration.ID, command string, env map[string]string) *ShellTask {
	return &ShellTask{id: id, Command: command, Env: env}
}

func (t *ShellTask) ID() migration.ID { return t.id }

func (t *ShellTask) Run(ctx context.Context, deps *migration.Deps) error {
	env := migration.Resolve[*Env](deps)

	cmd := exec.CommandContext(ctx, "sh", "-c", t.Command)
	cmd.Dir = env.WorkDir
	cmd.Stdout = env.Stdout
	cmd.Stderr = env.Stderr
	cmd.Env = t.environ(env.Environ)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("migration %s: command exited with code %d: %w", t.id, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("migration %s: %w", t.id, err)
	}
	return nil
}

func (t *ShellTask) environ(base []string) []string {
	if base == nil {
		base = os.Environ()
	}
	out := make([]string, 0, len(base)+len(t.Env))
	out = append(out, base...)

	keys := make([]string, 0, len(t.Env))
	for k := range t.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	// Later entries win for exec.Cmd, so task variables override the base.
	for _, k := range keys {
		out = append(out, k+"="+t.Env[k])
	}
	return out
}
