package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sghaida/odiscope/di"
)

// Timeline phases.
const (
	phaseSetup    = "setup"
	phaseFailed   = "failed"
	phaseCall     = "call"
	phaseTeardown = "teardown"
	phaseRollback = "rollback"
	phaseAgain    = "again"
)

// step is one recorded side effect of a run.
type step struct {
	Phase  string
	Slot   string
	Detail string
}

// timeline collects the steps of a single run. A run is sequential, so no
// locking is needed.
type timeline struct {
	steps []step
}

func (tl *timeline) add(phase, slot, detail string) {
	tl.steps = append(tl.steps, step{Phase: phase, Slot: slot, Detail: detail})
}

// tracingProvider turns a plan-file provider into a ProviderFunc that records its
// lifecycle on tl.
func tracingProvider(p ProviderSpec, tl *timeline) di.ProviderFunc {
	value := p.Value
	if value == "" {
		value = p.Slot
	}

	return func(ctx context.Context, in di.Args, yield di.Yield) error {
		tl.add(phaseSetup, p.Slot, formatArgs(in))

		switch p.Fault {
		case faultSetup:
			tl.add(phaseFailed, p.Slot, "setup")
			return fmt.Errorf("%s: setup failed", p.Slot)
		case faultNoYield:
			return nil
		case faultPanic:
			panic(p.Slot + ": setup panicked")
		}

		err := yield(value)
		if p.Fault == faultDoubleYield {
			again := yield(value)
			tl.add(phaseAgain, p.Slot, errString(again))
		}

		if err == nil {
			tl.add(phaseTeardown, p.Slot, "")
			if p.Fault == faultTeardown {
				tl.add(phaseFailed, p.Slot, "teardown")
				return fmt.Errorf("%s: teardown failed", p.Slot)
			}
			return nil
		}

		tl.add(phaseRollback, p.Slot, err.Error())
		di.Logger(ctx).Debug("rollback", "reaction", p.OnError)
		switch p.OnError {
		case onErrorSwallow:
			return nil
		case onErrorReplace:
			return errors.New(p.Slot + " rolled back")
		default:
			return err
		}
	}
}

// tracingTarget records the call and fails with raise when it is non-empty.
func tracingTarget(name string, tl *timeline) di.Target[string, string] {
	return func(_ context.Context, raise string, deps di.Args) (string, error) {
		tl.add(phaseCall, name, formatArgs(deps))
		if raise != "" {
			return "", errors.New(raise)
		}
		return "ok", nil
	}
}

// buildRegistry registers a tracing provider for every provider in the plan file.
func buildRegistry(pf *PlanFile, tl *timeline, opts ...di.Option) *di.Registry {
	reg := di.NewRegistry(opts...)
	for _, p := range pf.Providers {
		reg.Provide(p.Slot, tracingProvider(p, tl), dependencies(p.Needs)...)
	}
	return reg
}

// formatArgs renders args as sorted name=value pairs.
func formatArgs(in di.Args) string {
	names := slices.Sorted(maps.Keys(in))
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%v", n, in[n])
	}
	return strings.Join(parts, " ")
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
