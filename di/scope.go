package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sghaida/odiscope/internal/ctxlog"
)

// Scope is an ordered collection of entered resources.
//
// Resources are entered one at a time with Enter and all torn down by Close
// in exactly the reverse order. A Scope belongs to a single invocation and is
// not safe for concurrent use.
type Scope struct {
	logger   *slog.Logger
	observer Observer
	open     []*lifecycle
	closed   bool
}

// NewScope returns an empty scope. Only WithLogger and WithObserver apply.
func NewScope(opts ...Option) *Scope {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newScope(cfg)
}

func newScope(cfg config) *Scope {
	return &Scope{logger: cfg.logger, observer: cfg.observer}
}

// Len returns the number of resources currently entered.
func (s *Scope) Len() int { return len(s.open) }

// Enter runs fn to its suspension point and returns the value it yielded.
//
// The resource is recorded for teardown only when enter succeeds. A failed
// enter leaves the scope as it was; the caller is expected to Close it with
// the returned error so earlier resources can roll back.
func (s *Scope) Enter(ctx context.Context, slot string, fn ProviderFunc, in Args) (any, error) {
	if s.closed {
		return nil, ErrScopeClosed
	}
	if fn == nil {
		return nil, fmt.Errorf("%w for slot %q", ErrNilProvider, slot)
	}

	log := s.logger.With("slot", slot)
	l := start(ctxlog.WithLogger(ctx, log), slot, fn, in)

	v, err := l.enter()
	if err != nil {
		log.Debug("enter failed", "error", err)
		return nil, err
	}

	s.open = append(s.open, l)
	log.Debug("entered", "depth", len(s.open))
	s.observer.Observe(Event{Slot: slot, Kind: EventEnter})
	return v, nil
}

// Close exits every entered resource, innermost first, and returns the
// error still unwinding at the end.
//
// cause is the error the scope is closing with, nil on success. Each
// resource receives the error left by the one torn down before it, so a
// resource may handle it (nil), pass it on (the same error), or replace it
// (a different error). When any error was replaced the result is a
// *TeardownError listing what was displaced.
//
// Close is idempotent: later calls return cause unchanged.
func (s *Scope) Close(cause error) error {
	if s.closed {
		return cause
	}
	s.closed = true

	var displaced []error
	for i := len(s.open) - 1; i >= 0; i-- {
		l := s.open[i]
		out := l.exit(cause)

		log := s.logger.With("slot", l.slot)
		switch {
		case cause == nil && out == nil:
			log.Debug("exited")
		case cause == nil:
			log.Debug("exit failed", "error", out)
		case out == nil:
			log.Debug("error handled", "error", cause)
		case sameError(out, cause) || errors.Is(out, cause):
			log.Debug("error passed on", "error", out)
		default:
			log.Warn("error replaced", "error", out, "displaced", cause)
			displaced = append(displaced, cause)
		}

		s.observer.Observe(Event{Slot: l.slot, Kind: EventExit, Cause: cause, Err: out})
		cause = out
	}
	s.open = nil

	if cause != nil && len(displaced) > 0 {
		return &TeardownError{Err: cause, Displaced: displaced}
	}
	return cause
}
