package clierr

import (
	"errors"
	"fmt"

	"github.com/bartekus/monarch/pkg/migration"
)

// Exit codes used by the monarch CLI.
const (
	ExitFailure   = 1
	ExitUsage     = 2 // bad flags, config or manifest
	ExitMigration = 3 // a migration failed or its progress could not be saved
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError attaches a process exit code to Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func (e *ExitError) ExitCode() int { return e.Code }

// New returns an error reading msg that exits with code.
func New(code int, msg string) error {
	return &ExitError{Code: atLeastOne(code), Err: errors.New(msg)}
}

// Wrap prefixes cause with msg and exits with code. A nil cause yields New.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{Code: atLeastOne(code), Err: fmt.Errorf("%s: %w", msg, cause)}
}

// Usagef reports invalid input with ExitUsage.
func Usagef(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// ExitCodeOf maps err to a process exit code. An explicit ExitCoder wins;
// otherwise errors from the migration engine that mean "the recorded state
// is not what the operator asked for" map to ExitMigration, anything else to
// ExitFailure.
func ExitCodeOf(err error) int {
	var ec ExitCoder
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ec):
		return ec.ExitCode()
	case errors.Is(err, migration.ErrPersist), errors.Is(err, migration.ErrMissingDependency):
		return ExitMigration
	default:
		return ExitFailure
	}
}

func atLeastOne(code int) int {
	if code < ExitFailure {
		return ExitFailure
	}
	return code
}
