package di

import (
	"context"
	"log/slog"

	"github.com/sghaida/odiscope/internal/ctxlog"
)

// Target is a function whose dependencies are supplied by Inject. deps holds
// the values of exactly the dependencies the target declared.
type Target[In, Out any] func(ctx context.Context, in In, deps Args) (Out, error)

// Inject resolves the dependencies a target declares and returns a function
// with the target's call surface minus deps.
//
// The plan is built once, here: introspection and cycle errors are returned
// before any provider runs. Every call of the returned function then opens a
// fresh scope, enters each planned provider leaf-first, calls target, and
// closes the scope with the target's error. Calls share nothing but the plan,
// so the returned function is safe for concurrent use.
//
// The returned function yields the target's result when the target and every
// teardown succeed, and the zero Out otherwise. Its error is whatever is
// still unwinding after teardown; it is nil when a provider handled the
// target's error.
func Inject[In, Out any](r *Registry, target Target[In, Out], needs ...Dependency) (func(context.Context, In) (Out, error), error) {
	if target == nil {
		return nil, &IntrospectionError{Reason: "nil target"}
	}
	plan, err := r.Plan(needs...)
	if err != nil {
		return nil, err
	}

	cfg := r.cfg
	cfg.logger.Debug("plan built", "order", plan.Order())

	return func(ctx context.Context, in In) (Out, error) {
		return invoke(ctx, cfg, plan, target, in)
	}, nil
}

// Invoke plans and runs target once. It is Inject followed by a single call.
func Invoke[In, Out any](ctx context.Context, r *Registry, target Target[In, Out], in In, needs ...Dependency) (Out, error) {
	fn, err := Inject(r, target, needs...)
	if err != nil {
		var zero Out
		return zero, err
	}
	return fn(ctx, in)
}

// Logger returns the logger for the provider or target running under ctx.
// Outside an invocation it returns a logger that discards everything.
func Logger(ctx context.Context) *slog.Logger { return ctxlog.FromContext(ctx) }

func invoke[In, Out any](ctx context.Context, cfg config, plan *Plan, target Target[In, Out], in In) (Out, error) {
	var zero Out
	scope := newScope(cfg)
	values := make([]any, len(plan.nodes))

	for i, n := range plan.nodes {
		v, err := scope.Enter(ctx, n.slot, n.provider.fn, plan.args(n.needs, values))
		if err != nil {
			return zero, scope.Close(err)
		}
		values[i] = v
	}

	out, err := call(ctxlog.WithLogger(ctx, cfg.logger), target, in, plan.args(plan.direct, values))
	if cerr := scope.Close(err); cerr != nil {
		return zero, cerr
	}
	if err != nil {
		cfg.logger.Debug("target error handled by a provider", "error", err)
		return zero, nil
	}
	return out, nil
}

// call runs target and converts a panic into a PanicError.
func call[In, Out any](ctx context.Context, target Target[In, Out], in In, deps Args) (out Out, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero Out
			out, err = zero, &PanicError{Value: rec}
		}
	}()
	return target(ctx, in, deps)
}
