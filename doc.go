// Package di is the root of odiscope, a small scoped dependency injection
// toolkit for Go.
//
// Dependencies are two-phase resources: each one sets up, hands out a value,
// and later tears down, with the chance to roll back when the call it served
// failed. The toolkit plans the order they are needed in, opens them
// leaf-first, and closes them in reverse.
//
// See subpackages:
//   - di: registry, planner, scope and Inject
//   - cmd/discope: plans and traces invocations described in YAML files
//   - examples/schemaswap: a runnable session -> db -> schema swap flow
package di
