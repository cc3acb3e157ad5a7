// Package migration runs one-time tasks exactly until they succeed.
//
// A Group declares an ordered list of Tasks together with the dependencies
// they need. A Runner executes every task of the group whose ID has not been
// recorded as complete, in declaration order, and records each success in a
// CompletionStore so the task is skipped on later runs.
//
// # Usage
//
//	type SeedCache struct{}
//
//	func (SeedCache) ID() migration.ID { return migration.NewID("SeedCache") }
//
//	func (SeedCache) Run(ctx context.Context, deps *migration.Deps) error {
//	    db := migration.Resolve[*sql.DB](deps)
//	    _, err := db.ExecContext(ctx, "INSERT ...")
//	    return err
//	}
//
//	group := migration.NewGroup(SeedCache{}).WithDependency(db)
//	runner := migration.NewRunner(kv.NewFile(".monarch/state.json"))
//	if err := runner.Run(ctx, group); err != nil {
//	    // the failing task and the ones after it run again next time
//	}
//
// # Concurrency
//
// A Runner, its CompletionStore and a Group's Deps are meant to be used from
// one goroutine at a time. Running two groups concurrently against the same
// Runner, or calling MarkComplete/Unmark/ClearAll while a run is in
// progress, is not supported.
package migration
