package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sghaida/odiscope/di"
	"gopkg.in/yaml.v3"
)

// Provider reactions to an unwinding error.
const (
	onErrorRethrow = "rethrow"
	onErrorReplace = "replace"
	onErrorSwallow = "swallow"
)

// Provider faults.
const (
	faultSetup       = "setup"
	faultNoYield     = "no-yield"
	faultDoubleYield = "double-yield"
	faultTeardown    = "teardown"
	faultPanic       = "panic"
)

type DependencySpec struct {
	Arg  string `yaml:"arg"`
	Slot string `yaml:"slot"`
}

type TargetSpec struct {
	Name  string           `yaml:"name"`
	Needs []DependencySpec `yaml:"needs"`

	// Raise makes the target fail with this message when non-empty.
	Raise string `yaml:"raise"`
}

type ProviderSpec struct {
	Slot  string           `yaml:"slot"`
	Needs []DependencySpec `yaml:"needs"`

	// Value is what the provider yields. Defaults to the slot name.
	Value string `yaml:"value"`

	OnError string `yaml:"on_error"` // "rethrow" | "replace" | "swallow"
	Fault   string `yaml:"fault"`    // "setup" | "no-yield" | "double-yield" | "teardown" | "panic"
}

type PlanFile struct {
	Target    TargetSpec     `yaml:"target"`
	Providers []ProviderSpec `yaml:"providers"`
}

// loadPlanFile reads, decodes and validates a plan file. Unknown keys are
// rejected.
func loadPlanFile(path string) (*PlanFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	var pf PlanFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan file %s is empty", path)
		}
		return nil, fmt.Errorf("decode plan file %s: %w", path, err)
	}
	if err := validatePlanFile(&pf); err != nil {
		return nil, fmt.Errorf("invalid plan file %s: %w", path, err)
	}
	return &pf, nil
}

func validatePlanFile(pf *PlanFile) error {
	var errs []error
	req := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("missing %s", name))
		}
	}
	needs := func(owner string, ds []DependencySpec) {
		for i, d := range ds {
			if d.Arg == "" || d.Slot == "" {
				errs = append(errs, fmt.Errorf("%s needs[%d] must have arg/slot", owner, i))
			}
		}
	}

	req("target.name", pf.Target.Name)
	needs("target", pf.Target.Needs)

	for i, p := range pf.Providers {
		if p.Slot == "" {
			errs = append(errs, fmt.Errorf("providers[%d] missing slot", i))
			continue
		}
		needs(fmt.Sprintf("provider %q", p.Slot), p.Needs)

		switch p.OnError {
		case "", onErrorRethrow, onErrorReplace, onErrorSwallow:
		default:
			errs = append(errs, fmt.Errorf("provider %q on_error must be one of: rethrow|replace|swallow", p.Slot))
		}
		switch p.Fault {
		case "", faultSetup, faultNoYield, faultDoubleYield, faultTeardown, faultPanic:
		default:
			errs = append(errs, fmt.Errorf("provider %q fault must be one of: setup|no-yield|double-yield|teardown|panic", p.Slot))
		}
	}
	return errors.Join(errs...)
}

func dependencies(ds []DependencySpec) []di.Dependency {
	out := make([]di.Dependency, len(ds))
	for i, d := range ds {
		out[i] = di.Depends(d.Arg, d.Slot)
	}
	return out
}
