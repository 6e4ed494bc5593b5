// Command discope plans and traces scoped dependency injection runs described
// in a YAML plan file.
//
// A plan file names a target and the providers it depends on. Each provider
// is a stand-in resource: it records its setup, its teardown, and how it
// reacts when an error unwinds through it.
//
//	target:
//	  name: main
//	  needs: [{arg: schema_swap, slot: swap_schema}]
//	providers:
//	  - slot: session
//	    value: fake word
//	  - slot: db
//	    needs: [{arg: db, slot: session}]
//	    value: db1
//	    on_error: replace
//	  - slot: swap_schema
//	    needs: [{arg: db, slot: db}]
//	    value: "true"
//
// Commands
//
//   - discope plan FILE: print the leaf-first entry order, the teardown order
//     and what every slot receives
//   - discope run FILE [--raise MSG]: simulate one invocation and print the
//     enter/exit timeline and the outcome; exits 1 when the run ends in error
//   - discope version
//
// Provider fields
//
//   - on_error: rethrow (default) passes the unwinding error on, replace
//     substitutes "<slot> rolled back", swallow handles it
//   - fault: setup fails before yielding, no-yield returns without yielding,
//     double-yield yields twice, teardown fails on a normal exit, panic panics
//     during setup
//
// Global flags can also be set through DISCOPE_* environment variables or a
// YAML config file passed with --config:
//
//	--log-level  debug|info|warn|error (default warn)
//	--max-depth  planning depth bound (default 64)
//	--no-color   plain output
package main
