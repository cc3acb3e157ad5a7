package migration

import (
	"context"
	"errors"
)

type nectar struct {
	drank bool
}

type africanSwallow struct{ runs int }

func (*africanSwallow) ID() ID { return NewID("AfricanSwallowMigration") }

func (m *africanSwallow) Run(context.Context, *Deps) error {
	m.runs++
	return nil
}

type europeanSwallow struct{ runs int }

func (*europeanSwallow) ID() ID { return NewID("EuropeanSwallowMigration") }

func (m *europeanSwallow) Run(context.Context, *Deps) error {
	m.runs++
	return nil
}

type butterfly struct {
	runs   int
	nectar *nectar
}

func (*butterfly) ID() ID { return NewID("ButterflyMigration") }

func (m *butterfly) Run(_ context.Context, deps *Deps) error {
	m.runs++
	m.nectar = Resolve[*nectar](deps)
	m.nectar.drank = true
	return nil
}

type flamingo struct{ runs int }

func (*flamingo) ID() ID { return NewID("FlamingoMigration") }

func (m *flamingo) Run(context.Context, *Deps) error {
	m.runs++
	return nil
}

var errBoom = errors.New("boom")

// journal records task executions in order.
type journal struct {
	entries []string
}

func (j *journal) task(id string) *FuncTask {
	return Func(NewID(id), func(context.Context, *Deps) error {
		j.entries = append(j.entries, id)
		return nil
	})
}

func (j *journal) failing(id string, err error) *FuncTask {
	return Func(NewID(id), func(context.Context, *Deps) error {
		j.entries = append(j.entries, id)
		return err
	})
}
