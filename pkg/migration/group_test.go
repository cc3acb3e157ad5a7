package migration

import (
	"context"
	"fmt"
	"testing"

	"github.com/bartekus/monarch/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID().String()
	}
	return out
}

func TestNewGroup_KeepsDeclarationOrder(t *testing.T) {
	g := NewGroup(&africanSwallow{}, &europeanSwallow{}, &flamingo{})

	require.Equal(t, 3, g.Len())
	assert.Equal(t, []string{
		"AfricanSwallowMigration",
		"EuropeanSwallowMigration",
		"FlamingoMigration",
	}, ids(g.Tasks()))
}

func TestGroup_CompositionFlattensInSourceOrder(t *testing.T) {
	j := &journal{}
	var optional Task

	g := NewGroup(j.task("A")).
		AddIf(true, j.task("B1"), j.task("B2")).
		AddIf(false, j.task("skipped")).
		AddEither(false, []Task{j.task("first")}, []Task{j.task("C")}).
		AddOptional(optional).
		AddOptional(j.task("D")).
		AddEach(3, func(i int) Task {
			if i == 1 {
				return nil
			}
			return j.task(fmt.Sprintf("E%d", i))
		}).
		Add(Flatten([]Task{j.task("F")}, nil, []Task{j.task("G"), j.task("H")})...)

	assert.Equal(t, []string{"A", "B1", "B2", "C", "D", "E0", "E2", "F", "G", "H"}, ids(g.Tasks()))
}

func TestGroup_AddOptionalTypedNil(t *testing.T) {
	var maybe *flamingo
	var fn *FuncTask

	g := NewGroup().
		AddOptional(maybe).
		Add(fn, &africanSwallow{}).
		AddEach(1, func(int) Task { return maybe })

	assert.Equal(t, []string{"AfricanSwallowMigration"}, ids(g.Tasks()))
	require.NoError(t, NewRunner(kv.NewMemory()).Run(context.Background(), NewGroup().AddOptional(maybe)))
}

func TestGroup_DuplicatesKept(t *testing.T) {
	f := &flamingo{}
	g := NewGroup(f, f)
	assert.Equal(t, 2, g.Len())
}

func TestGroup_TasksReturnsCopy(t *testing.T) {
	g := NewGroup(&flamingo{})
	tasks := g.Tasks()
	tasks[0] = &africanSwallow{}

	assert.Equal(t, []string{"FlamingoMigration"}, ids(g.Tasks()))
}

func TestGroup_WithDependencyChains(t *testing.T) {
	n := &nectar{}
	g := NewGroup(&butterfly{}).
		WithDependency(n).
		WithDependency("a string")

	assert.Same(t, n, Resolve[*nectar](g.Deps()))
	assert.Equal(t, "a string", Resolve[string](g.Deps()))
}

func TestProvideAs(t *testing.T) {
	g := ProvideAs[fmt.Stringer](NewGroup(), NewID("x"))
	assert.Equal(t, "x", Resolve[fmt.Stringer](g.Deps()).String())
}

func TestGroup_ZeroValue(t *testing.T) {
	var g Group
	g.Add(&flamingo{}).WithDependency(&nectar{})

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, g.Deps().Len())
}

func TestFlatten(t *testing.T) {
	assert.Empty(t, Flatten())
	assert.Equal(t, []string{"AfricanSwallowMigration", "FlamingoMigration"},
		ids(Flatten([]Task{&africanSwallow{}}, []Task{&flamingo{}})))
}
