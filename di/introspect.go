package di

import "fmt"

// Declaration is a dependency resolved against the registry: the argument
// name its owner receives the value under, and the provider producing it.
type Declaration struct {
	Arg      string
	Provider *Provider
}

// Declarations returns the (argument, provider) pairs declared by the
// provider registered under slot, in declaration order. A provider without
// dependencies yields an empty result.
//
// It fails with an IntrospectionError when the registry recorded
// registration errors, the slot is unknown, or a declaration is unusable.
func (r *Registry) Declarations(slot string) ([]Declaration, error) {
	if r == nil {
		return nil, &IntrospectionError{Owner: slot, Reason: "nil registry"}
	}
	if err := r.Err(); err != nil {
		return nil, &IntrospectionError{Owner: slot, Reason: "registry has registration errors", Err: err}
	}
	p, ok := r.slots[slot]
	if !ok {
		return nil, &IntrospectionError{Owner: slot, Reason: "slot not registered"}
	}
	return r.declare(slot, p.needs)
}

// declare resolves an owner's dependency list. owner is empty for a target.
func (r *Registry) declare(owner string, needs []Dependency) ([]Declaration, error) {
	out := make([]Declaration, 0, len(needs))
	seen := make(map[string]struct{}, len(needs))

	for _, d := range needs {
		if d.Arg == "" {
			return nil, &IntrospectionError{Owner: owner, Reason: fmt.Sprintf("empty argument name for slot %q", d.Slot)}
		}
		if _, dup := seen[d.Arg]; dup {
			return nil, &IntrospectionError{Owner: owner, Arg: d.Arg, Reason: "declared more than once"}
		}
		seen[d.Arg] = struct{}{}

		p, ok := r.slots[d.Slot]
		if !ok {
			return nil, &IntrospectionError{Owner: owner, Arg: d.Arg, Reason: fmt.Sprintf("depends on unregistered slot %q", d.Slot)}
		}
		out = append(out, Declaration{Arg: d.Arg, Provider: p})
	}
	return out, nil
}
