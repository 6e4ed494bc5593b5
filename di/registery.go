package di

import (
	"errors"
	"fmt"
	"slices"
)

// Dependency declares that its owner needs the value produced by Slot,
// delivered under the argument name Arg.
//
// Expected usage:
//
//	reg.Provide("db", openDB, di.Depends("session", "session"))
type Dependency struct {
	Arg  string
	Slot string
}

// Depends builds a Dependency.
func Depends(arg, slot string) Dependency { return Dependency{Arg: arg, Slot: slot} }

// Provider is a two-phase provider bound to a slot together with the
// dependencies it declares. Providers are immutable once registered.
type Provider struct {
	slot  string
	fn    ProviderFunc
	needs []Dependency
}

// Slot returns the slot the provider is registered under.
func (p *Provider) Slot() string { return p.slot }

// Needs returns a copy of the provider's declared dependencies.
func (p *Provider) Needs() []Dependency { return slices.Clone(p.needs) }

// Registry binds named slots to two-phase providers.
//
// It is intentionally:
// - explicit: every provider and every dependency edge is declared by name
// - build-time only: plans are resolved once, by Plan or Inject
// - not safe for concurrent registration
//
// Registration never fails in place so calls can be chained; problems are
// recorded and reported by Err, Plan and Inject.
type Registry struct {
	cfg   config
	slots map[string]*Provider
	order []string
	errs  []error
}

// NewRegistry returns an empty registry configured by opts.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{cfg: defaultConfig(), slots: map[string]*Provider{}}
	for _, opt := range opts {
		opt(&r.cfg)
	}
	return r
}

// Provide registers fn under slot with its declared dependencies and returns
// the registry for chaining.
func (r *Registry) Provide(slot string, fn ProviderFunc, needs ...Dependency) *Registry {
	switch {
	case slot == "":
		r.errs = append(r.errs, ErrEmptySlot)
		return r
	case fn == nil:
		r.errs = append(r.errs, fmt.Errorf("%w for slot %q", ErrNilProvider, slot))
		return r
	}
	if _, exists := r.slots[slot]; exists {
		r.errs = append(r.errs, &DuplicateSlotError{Slot: slot})
		return r
	}
	r.slots[slot] = &Provider{slot: slot, fn: fn, needs: slices.Clone(needs)}
	r.order = append(r.order, slot)
	return r
}

// Lookup returns the provider registered under slot.
func (r *Registry) Lookup(slot string) (*Provider, bool) {
	p, ok := r.slots[slot]
	return p, ok
}

// MustLookup returns the provider or panics with a helpful message.
// Useful in examples/tests where a missing slot should fail fast.
func (r *Registry) MustLookup(slot string) *Provider {
	p, ok := r.slots[slot]
	if !ok {
		panic(fmt.Errorf("di: registry missing slot %q", slot))
	}
	return p
}

// Slots returns the registered slot names in registration order.
func (r *Registry) Slots() []string { return slices.Clone(r.order) }

// Err returns every registration problem recorded so far, or nil.
func (r *Registry) Err() error { return errors.Join(r.errs...) }
