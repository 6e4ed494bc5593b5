package di

import "slices"

// binding delivers the value of node under arg.
type binding struct {
	arg  string
	node int
}

// node is one entry of a plan: a provider plus the arguments it needs from
// nodes earlier in the order.
type node struct {
	slot     string
	provider *Provider
	needs    []binding
}

// Plan is a leaf-first resolution order for one target's dependencies.
//
// Every node appears after all the nodes it needs, and each slot appears
// once even when several owners depend on it. Plans are immutable and safe
// to share between concurrent invocations.
type Plan struct {
	nodes  []node
	index  map[string]int
	direct []binding
}

// Len returns the number of slots the plan enters.
func (p *Plan) Len() int { return len(p.nodes) }

// Order returns the slots in entry order, leaf-first.
func (p *Plan) Order() []string {
	out := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.slot
	}
	return out
}

// Teardown returns the slots in exit order: the exact reverse of Order.
func (p *Plan) Teardown() []string {
	out := p.Order()
	slices.Reverse(out)
	return out
}

// Direct returns the target's own dependencies.
func (p *Plan) Direct() []Dependency { return p.deps(p.direct) }

// Needs returns the dependencies slot receives at entry, or nil when the slot
// is not part of the plan.
func (p *Plan) Needs(slot string) []Dependency {
	i, ok := p.index[slot]
	if !ok {
		return nil
	}
	return p.deps(p.nodes[i].needs)
}

func (p *Plan) deps(bs []binding) []Dependency {
	out := make([]Dependency, len(bs))
	for i, b := range bs {
		out[i] = Dependency{Arg: b.arg, Slot: p.nodes[b.node].slot}
	}
	return out
}

// args computes the needed-from values of bs out of the resolved values.
func (p *Plan) args(bs []binding, values []any) Args {
	in := make(Args, len(bs))
	for _, b := range bs {
		in[b.arg] = values[b.node]
	}
	return in
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type planner struct {
	reg      *Registry
	maxDepth int
	states   map[string]visitState
	plan     *Plan
}

// Plan builds the resolution order for a target declaring needs.
//
// Each declared provider's own declarations are walked depth-first and
// emitted post-order, so every provider follows everything it needs. Sibling
// declarations are walked from the last one to the first; the target's
// direct dependencies come after their whole subtrees.
//
// Plan fails with an IntrospectionError for unusable declarations and with a
// CycleError when a slot depends on itself, directly or transitively, or the
// walk goes deeper than the configured bound. No provider runs.
func (r *Registry) Plan(needs ...Dependency) (*Plan, error) {
	if r == nil {
		return nil, &IntrospectionError{Reason: "nil registry"}
	}
	if err := r.Err(); err != nil {
		return nil, &IntrospectionError{Reason: "registry has registration errors", Err: err}
	}

	direct, err := r.declare("", needs)
	if err != nil {
		return nil, err
	}

	b := &planner{
		reg:      r,
		maxDepth: r.cfg.maxDepth,
		states:   make(map[string]visitState),
		plan:     &Plan{index: make(map[string]int)},
	}

	bindings, err := b.visitAll(direct, nil)
	if err != nil {
		return nil, err
	}
	b.plan.direct = bindings
	return b.plan, nil
}

// visitAll walks decls last-to-first and returns their bindings in
// declaration order.
func (b *planner) visitAll(decls []Declaration, path []string) ([]binding, error) {
	out := make([]binding, len(decls))
	for i := len(decls) - 1; i >= 0; i-- {
		idx, err := b.visit(decls[i].Provider, path)
		if err != nil {
			return nil, err
		}
		out[i] = binding{arg: decls[i].Arg, node: idx}
	}
	return out, nil
}

func (b *planner) visit(p *Provider, path []string) (int, error) {
	switch b.states[p.slot] {
	case visiting:
		return -1, &CycleError{Chain: append(slices.Clone(path), p.slot)}
	case visited:
		return b.plan.index[p.slot], nil
	}

	path = append(path, p.slot)
	if len(path) > b.maxDepth {
		return -1, &CycleError{Chain: slices.Clone(path), DepthExceeded: true}
	}

	b.states[p.slot] = visiting

	decls, err := b.reg.declare(p.slot, p.needs)
	if err != nil {
		return -1, err
	}
	needs, err := b.visitAll(decls, path)
	if err != nil {
		return -1, err
	}

	idx := len(b.plan.nodes)
	b.plan.nodes = append(b.plan.nodes, node{slot: p.slot, provider: p, needs: needs})
	b.plan.index[p.slot] = idx
	b.states[p.slot] = visited
	return idx, nil
}
