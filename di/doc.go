// Package di resolves a target function's dependencies, runs each one as a
// scoped two-phase resource, and tears them down in reverse order.
//
// Wiring stays explicit. Providers are registered under named slots, and each
// provider and target declares what it needs by (argument, slot) pairs:
//
//	reg := di.NewRegistry().
//		Provide("session", openSession).
//		Provide("db", openDB, di.Depends("session", "session")).
//		Provide("swap_schema", swapSchema, di.Depends("db", "db"))
//
//	run, err := di.Inject(reg, handler, di.Depends("schema_swap", "swap_schema"))
//
// Inject builds the plan once. Unknown slots, bad declarations and cycles are
// reported there, before any provider runs. Every call of run then:
//
//   - enters each provider leaf-first (session, db, swap_schema)
//   - calls handler with exactly its direct dependencies
//   - exits every entered provider in reverse, even when something failed
//
// # Providers
//
// A ProviderFunc does its setup, hands the value to yield, and does its
// teardown once yield returns:
//
//	func openDB(ctx context.Context, in di.Args, yield di.Yield) error {
//		db := connect(di.MustArgAs[string](in, "session"))
//		defer db.Close()
//
//		if err := yield(db); err != nil {
//			db.Rollback()
//			return err // keep unwinding
//		}
//		return db.Commit()
//	}
//
// yield returns the error unwinding through the scope, if any. Returning that
// same error passes it on, returning a different one replaces it, and
// returning nil handles it. Resource, Func and Closer adapt acquire/release
// style code to the same contract.
//
// # Errors
//
// Failures match one of the package sentinels with errors.Is:
// ErrIntrospection and ErrCycle at plan time, ErrProtocol when a provider
// does not yield exactly once, and ErrProviderPanic / ErrTargetPanic for
// recovered panics. A replaced error is never lost: Scope.Close reports it in
// TeardownError.Displaced.
//
// Import
//
//	"github.com/sghaida/odiscope/di"
package di
