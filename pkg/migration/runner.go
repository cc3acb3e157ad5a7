package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Runner executes the pending tasks of a group and records their completion.
type Runner struct {
	store          *CompletionStore
	logger         *slog.Logger
	tracer         trace.Tracer
	missingAsError bool
}

// NewRunner creates a runner whose completed set lives in backend.
func NewRunner(backend StringListStore, opts ...Option) *Runner {
	o := newOptions(opts)
	return &Runner{
		store:          NewCompletionStore(backend, opts...),
		logger:         o.logger,
		tracer:         o.tracer,
		missingAsError: o.missingAsError,
	}
}

// Store returns the runner's completion store.
func (r *Runner) Store() *CompletionStore {
	return r.store
}

// Run executes, in order, every task of g whose ID is not yet complete.
//
// Tasks already complete when the run starts are skipped. When a task fails,
// the tasks that succeeded before it are persisted as complete and the task's
// error is returned unchanged; the failing task and everything after it stay
// pending. If the completed set cannot be written, the returned error wraps
// ErrPersist.
//
// Cancellation is checked before each task that would run: Run does not
// interrupt a task, but it returns ctx.Err() instead of starting the next
// one. Skipped tasks never observe cancellation.
//
// A task that resolves an unregistered dependency panics. Run persists the
// progress made so far and re-panics, unless the runner was built with
// WithMissingDependencyErrors.
func (r *Runner) Run(ctx context.Context, g *Group) (err error) {
	if g == nil {
		return ErrNilGroup
	}

	runID := uuid.NewString()
	ctx, span := r.tracer.Start(ctx, "monarch.run", trace.WithAttributes(
		attribute.String("monarch.run_id", runID),
		attribute.Int("monarch.tasks", g.Len()),
	))
	defer span.End()
	log := r.logger.With(slog.String("run_id", runID))

	// Persisting must survive cancellation of the run itself.
	saveCtx := context.WithoutCancel(ctx)
	done := r.store.snapshot(ctx)
	completed := cloneSet(done)
	dirty := false
	persist := func() error {
		if !dirty {
			return nil
		}
		return r.store.save(saveCtx, completed)
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		perr := persist()
		missing, ok := rec.(*MissingDependencyError)
		if !ok || !r.missingAsError {
			panic(rec)
		}
		err = joinFailure(missing, perr)
		recordError(span, err)
	}()

	executed := 0
	for i, t := range g.tasks {
		id := t.ID()
		if id.IsZero() {
			err = joinFailure(fmt.Errorf("%w: task %d (%T) has an empty id", ErrInvalidTask, i, t), persist())
			recordError(span, err)
			return err
		}
		if _, ok := done[id.String()]; ok {
			log.Debug("skipping completed migration", slog.String("migration", id.String()))
			continue
		}
		if cerr := ctx.Err(); cerr != nil {
			err = joinFailure(cerr, persist())
			recordError(span, err)
			return err
		}

		if terr := r.execute(ctx, log, i, t, g.Deps()); terr != nil {
			err = joinFailure(terr, persist())
			recordError(span, err)
			return err
		}
		completed[id.String()] = struct{}{}
		dirty = true
		executed++
	}

	if err = persist(); err != nil {
		recordError(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("monarch.executed", executed))
	log.Info("migrations finished", slog.Int("executed", executed), slog.Int("total", g.Len()))
	return nil
}

// RunFunc builds the group with factory and runs it.
func (r *Runner) RunFunc(ctx context.Context, factory func() *Group) error {
	if factory == nil {
		return ErrNilGroup
	}
	return r.Run(ctx, factory())
}

// Pending returns the tasks of g that Run would execute, in order.
func (r *Runner) Pending(ctx context.Context, g *Group) []Task {
	if g == nil {
		return nil
	}
	done := r.store.load(ctx)
	var pending []Task
	for _, t := range g.tasks {
		if _, ok := done[t.ID().String()]; !ok {
			pending = append(pending, t)
		}
	}
	return pending
}

// MarkComplete records id as complete without running anything.
func (r *Runner) MarkComplete(ctx context.Context, id ID) error {
	if id.IsZero() {
		return ErrEmptyID
	}
	if err := r.store.MarkComplete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("migration marked complete", slog.String("migration", id.String()))
	return nil
}

// Unmark removes id from the completed set so it runs again.
func (r *Runner) Unmark(ctx context.Context, id ID) error {
	if id.IsZero() {
		return ErrEmptyID
	}
	if err := r.store.Unmark(ctx, id); err != nil {
		return err
	}
	r.logger.Info("migration unmarked", slog.String("migration", id.String()))
	return nil
}

// ClearAll forgets every completed migration.
func (r *Runner) ClearAll(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return err
	}
	r.logger.Info("completed migrations cleared")
	return nil
}

func (r *Runner) execute(ctx context.Context, log *slog.Logger, index int, t Task, deps *Deps) error {
	id := t.ID().String()
	ctx, span := r.tracer.Start(ctx, "monarch.task", trace.WithAttributes(
		attribute.String("monarch.migration", id),
		attribute.Int("monarch.index", index),
	))
	defer span.End()

	log.Info("running migration", slog.String("migration", id))
	start := time.Now()
	if err := t.Run(ctx, deps); err != nil {
		recordError(span, err)
		return err
	}
	log.Info("migration completed", slog.String("migration", id), slog.Duration("duration", time.Since(start)))
	return nil
}

// joinFailure keeps the task error as returned when persisting succeeded.
func joinFailure(taskErr, persistErr error) error {
	if persistErr == nil {
		return taskErr
	}
	return errors.Join(taskErr, persistErr)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
