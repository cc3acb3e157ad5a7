package migration

import (
	"reflect"
	"sort"
)

// Deps holds the dependencies available to the tasks of one group, keyed by
// Go type. There is one instance per type; registering the same type again
// replaces the previous instance.
type Deps struct {
	values map[reflect.Type]any
}

// NewDeps creates an empty container.
func NewDeps() *Deps {
	return &Deps{values: make(map[reflect.Type]any)}
}

// Set registers v under its dynamic type. A nil v is ignored.
//
// To register a value under an interface type, use Provide.
func (d *Deps) Set(v any) {
	if v == nil {
		return
	}
	d.put(reflect.TypeOf(v), v)
}

// Provide registers v under the static type T.
func Provide[T any](d *Deps, v T) {
	d.put(reflect.TypeFor[T](), v)
}

// Resolve returns the instance registered for T.
//
// A missing dependency is a programming error: Resolve panics with a
// *MissingDependencyError naming T. Use Lookup for an error instead.
func Resolve[T any](d *Deps) T {
	v, err := Lookup[T](d)
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup returns the instance registered for T, or a *MissingDependencyError.
func Lookup[T any](d *Deps) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	if d == nil || d.values == nil {
		return zero, &MissingDependencyError{Type: t.String()}
	}
	v, ok := d.values[t]
	if !ok {
		return zero, &MissingDependencyError{Type: t.String()}
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &MissingDependencyError{Type: t.String()}
	}
	return typed, nil
}

// Types returns the names of all registered types, sorted.
func (d *Deps) Types() []string {
	names := make([]string, 0, len(d.values))
	for t := range d.values {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (d *Deps) Len() int {
	return len(d.values)
}

func (d *Deps) put(t reflect.Type, v any) {
	if d.values == nil {
		d.values = make(map[reflect.Type]any)
	}
	d.values[t] = v
}
