package migration

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeps_SetAndResolve(t *testing.T) {
	d := NewDeps()
	n := &nectar{}
	d.Set(n)

	assert.Same(t, n, Resolve[*nectar](d))
	assert.Same(t, Resolve[*nectar](d), Resolve[*nectar](d))
}

func TestDeps_OverwriteSameType(t *testing.T) {
	d := NewDeps()
	first, second := &nectar{}, &nectar{}
	d.Set(first)
	d.Set(second)

	assert.Same(t, second, Resolve[*nectar](d))
	assert.Equal(t, 1, d.Len())
}

func TestDeps_ValueAndPointerAreDistinct(t *testing.T) {
	d := NewDeps()
	d.Set(nectar{drank: true})

	v, err := Lookup[nectar](d)
	require.NoError(t, err)
	assert.True(t, v.drank)

	_, err = Lookup[*nectar](d)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestDeps_ProvideInterface(t *testing.T) {
	d := NewDeps()
	buf := &bytes.Buffer{}
	Provide[io.Writer](d, buf)

	w := Resolve[io.Writer](d)
	_, _ = w.Write([]byte("hi"))
	assert.Equal(t, "hi", buf.String())

	// Registered under the interface only.
	_, err := Lookup[*bytes.Buffer](d)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestDeps_SetNilIgnored(t *testing.T) {
	d := NewDeps()
	d.Set(nil)
	assert.Equal(t, 0, d.Len())
}

func TestResolve_MissingPanics(t *testing.T) {
	d := NewDeps()

	assert.PanicsWithError(t, "dependency *migration.nectar not registered", func() {
		Resolve[*nectar](d)
	})
}

func TestLookup_Missing(t *testing.T) {
	_, err := Lookup[*nectar](NewDeps())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrMissingDependency)
	var missing *MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "*migration.nectar", missing.Type)

	_, err = Lookup[*nectar](nil)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestDeps_ZeroValueUsable(t *testing.T) {
	var d Deps
	d.Set(&nectar{})
	_, err := Lookup[*nectar](&d)
	assert.NoError(t, err)
}

func TestDeps_Types(t *testing.T) {
	d := NewDeps()
	d.Set(&nectar{})
	Provide[io.Writer](d, &bytes.Buffer{})

	assert.Equal(t, []string{"*migration.nectar", "io.Writer"}, d.Types())
}
