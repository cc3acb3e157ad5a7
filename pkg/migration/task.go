package migration

import "context"

// Task defines a unit of one-time work.
type Task interface {
	// ID returns the identifier under which completion is recorded.
	// It must return the same value for every instance of a task type.
	ID() ID

	// Run executes the task. A nil error marks the task complete.
	Run(ctx context.Context, deps *Deps) error
}

// FuncTask adapts a function to the Task interface.
type FuncTask struct {
	id ID
	fn func(ctx context.Context, deps *Deps) error
}

// Func returns a Task with the given ID that calls fn.
func Func(id ID, fn func(ctx context.Context, deps *Deps) error) *FuncTask {
	return &FuncTask{id: id, fn: fn}
}

func (t *FuncTask) ID() ID { return t.id }

func (t *FuncTask) Run(ctx context.Context, deps *Deps) error {
	if t.fn == nil {
		return nil
	}
	return t.fn(ctx, deps)
}
