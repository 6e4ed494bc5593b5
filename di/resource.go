package di

import (
	"context"
	"io"
)

// Resource is the acquire/release form of a two-phase provider.
//
// Release receives nil on a normal exit, or the error unwinding through the
// scope so the resource can roll back. A nil return from Release never hides
// that error; returning a different error replaces it.
type Resource interface {
	Acquire(ctx context.Context, in Args) (any, error)
	Release(ctx context.Context, cause error) error
}

// FromResource adapts a Resource constructor into a ProviderFunc. The
// constructor runs once per invocation, so no state leaks between calls.
func FromResource(newResource func() Resource) ProviderFunc {
	return func(ctx context.Context, in Args, yield Yield) error {
		res := newResource()
		v, err := res.Acquire(ctx, in)
		if err != nil {
			return err
		}
		cause := yield(v)
		return settle(cause, res.Release(ctx, cause))
	}
}

// Func adapts a typed acquire/release pair into a ProviderFunc. release may
// be nil when there is nothing to tear down.
func Func[T any](
	acquire func(ctx context.Context, in Args) (T, error),
	release func(ctx context.Context, value T, cause error) error,
) ProviderFunc {
	return func(ctx context.Context, in Args, yield Yield) error {
		v, err := acquire(ctx, in)
		if err != nil {
			return err
		}
		cause := yield(v)
		if release == nil {
			return cause
		}
		return settle(cause, release(ctx, v, cause))
	}
}

// Closer adapts a constructor of an io.Closer. The value is closed on every
// exit path.
func Closer[T io.Closer](open func(ctx context.Context, in Args) (T, error)) ProviderFunc {
	return Func(open, func(_ context.Context, c T, _ error) error {
		return c.Close()
	})
}

// settle picks what keeps unwinding after a release: the release error when
// there is one, otherwise the original cause.
func settle(cause, err error) error {
	if err != nil {
		return err
	}
	return cause
}
