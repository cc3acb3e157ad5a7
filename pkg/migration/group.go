package migration

import "reflect"

// Group is an ordered batch of tasks together with the dependencies they use.
//
// Tasks run in the order they were added. Duplicates are kept; IDs are not
// checked for collisions.
type Group struct {
	tasks []Task
	deps  *Deps
}

// NewGroup creates a group with the given tasks.
func NewGroup(tasks ...Task) *Group {
	g := &Group{deps: NewDeps()}
	return g.Add(tasks...)
}

// Add appends tasks. Nil entries are dropped, including typed nils such as
// a nil *T stored in a Task.
func (g *Group) Add(tasks ...Task) *Group {
	for _, t := range tasks {
		if !isNilTask(t) {
			g.tasks = append(g.tasks, t)
		}
	}
	return g
}

// AddIf appends tasks only when cond is true.
func (g *Group) AddIf(cond bool, tasks ...Task) *Group {
	if !cond {
		return g
	}
	return g.Add(tasks...)
}

// AddEither appends first when cond is true and second otherwise.
func (g *Group) AddEither(cond bool, first, second []Task) *Group {
	if cond {
		return g.Add(first...)
	}
	return g.Add(second...)
}

// AddOptional appends t unless it is nil or holds a nil pointer.
func (g *Group) AddOptional(t Task) *Group {
	return g.Add(t)
}

// AddEach appends fn(0) through fn(n-1) in order, skipping nil results.
func (g *Group) AddEach(n int, fn func(i int) Task) *Group {
	for i := 0; i < n; i++ {
		g.Add(fn(i))
	}
	return g
}

// WithDependency registers v for the group's tasks under its dynamic type.
func (g *Group) WithDependency(v any) *Group {
	g.Deps().Set(v)
	return g
}

// ProvideAs registers v for the group's tasks under the static type T.
//
//	migration.ProvideAs[io.Writer](group, os.Stdout)
func ProvideAs[T any](g *Group, v T) *Group {
	Provide[T](g.Deps(), v)
	return g
}

// Tasks returns a copy of the group's tasks in execution order.
func (g *Group) Tasks() []Task {
	out := make([]Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Len returns the number of tasks.
func (g *Group) Len() int {
	return len(g.tasks)
}

// Deps returns the group's dependency container.
func (g *Group) Deps() *Deps {
	if g.deps == nil {
		g.deps = NewDeps()
	}
	return g.deps
}

// Flatten concatenates task lists in argument order.
func Flatten(parts ...[]Task) []Task {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Task, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func isNilTask(t Task) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
