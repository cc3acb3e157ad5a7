package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bartekus/monarch/pkg/migration"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: cause, want: ExitFailure},
		{name: "usage", err: Usagef("unknown migration %q", "x"), want: ExitUsage},
		{name: "wrapped", err: Wrap(ExitMigration, "migration failed", cause), want: ExitMigration},
		{name: "wrapped twice", err: fmt.Errorf("outer: %w", Wrap(ExitMigration, "migration failed", cause)), want: ExitMigration},
		{name: "zero normalized", err: New(0, "oops"), want: ExitFailure},
		{name: "persist failure", err: fmt.Errorf("mark x: %w: %w", migration.ErrPersist, cause), want: ExitMigration},
		{name: "missing dependency", err: &migration.MissingDependencyError{Type: "*manifest.Env"}, want: ExitMigration},
		{name: "explicit code beats engine error", err: Wrap(ExitUsage, "bad", migration.ErrPersist), want: ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")

	err := Wrap(ExitMigration, "migration failed", cause)
	assert.EqualError(t, err, "migration failed: disk full")
	assert.ErrorIs(t, err, cause)

	assert.EqualError(t, Wrap(ExitMigration, "migration failed", nil), "migration failed")
}
