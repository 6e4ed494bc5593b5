package di

import (
	"context"
	"errors"
	"iter"
)

// ProviderFunc is a two-phase resource provider.
//
// It performs setup, calls yield exactly once with the resource value, and
// performs teardown after yield returns. yield returns nil when the scope
// closes normally, or the error unwinding through the scope, which the
// provider may roll back on. What the provider returns after that decides
// what keeps unwinding:
//
//   - nil: the error is handled here and the scope continues normally
//   - the very error yield returned: it keeps unwinding unchanged
//   - any other error: it replaces the unwinding error
//
// Returning an error before yielding fails the enter with that error.
// Returning nil before yielding, or yielding a second time, is a
// ProtocolError. yield must be called from the provider's own goroutine.
type ProviderFunc func(ctx context.Context, in Args, yield Yield) error

// Yield hands the setup value to the scope and suspends the provider until
// teardown.
type Yield func(value any) error

// lifecycle drives one ProviderFunc through enter and exit as a coroutine on
// the caller's goroutine.
type lifecycle struct {
	slot  string
	next  func() (any, bool)
	stop  func()
	cause error
	err   error
}

func start(ctx context.Context, slot string, fn ProviderFunc, in Args) *lifecycle {
	l := &lifecycle{slot: slot}
	l.next, l.stop = iter.Pull(func(suspend func(any) bool) {
		l.err = fn(ctx, in, func(v any) error {
			if !suspend(v) {
				return ErrScopeClosed
			}
			return l.cause
		})
	})
	return l
}

// resume runs the provider to its next suspension point or to its end.
func (l *lifecycle) resume() (v any, suspended bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Slot: l.slot, Value: rec}
		}
	}()
	v, suspended = l.next()
	return v, suspended, nil
}

// halt stops a provider that suspended when it should have finished.
func (l *lifecycle) halt() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Slot: l.slot, Value: rec}
		}
	}()
	l.stop()
	return nil
}

// enter runs the provider to its single suspension point.
func (l *lifecycle) enter() (any, error) {
	v, suspended, err := l.resume()
	switch {
	case err != nil:
		return nil, err
	case suspended:
		return v, nil
	case l.err != nil:
		return nil, l.err
	default:
		return nil, &ProtocolError{Slot: l.slot, Reason: "provider did not suspend"}
	}
}

// exit resumes the provider past its suspension point, forwarding cause, and
// returns the error that keeps unwinding afterwards.
func (l *lifecycle) exit(cause error) error {
	l.cause = cause
	_, suspended, err := l.resume()
	if err != nil {
		return err
	}
	if suspended {
		pe := &ProtocolError{Slot: l.slot, Reason: "provider did not suspend exactly once", Cause: cause}
		if herr := l.halt(); herr != nil {
			return errors.Join(pe, herr)
		}
		return pe
	}
	return l.err
}
