package di

import (
	"maps"
	"reflect"
)

// Args carries resolved values keyed by argument name.
//
// A provider receives the values of its own declared dependencies; a target
// receives the values of exactly its direct dependencies. The bag is
// intentionally loose (map[string]any) so providers can hand out any type;
// typed retrieval is available via ArgAs / TryArgAs / MustArgAs.
type Args map[string]any

// Has reports whether a value exists for the name (regardless of type).
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Get returns the raw stored value without type assertions.
func (a Args) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// Names returns the argument names in no particular order.
func (a Args) Names() []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	return out
}

// Clone returns a shallow copy. Values are shared; the map is not.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return maps.Clone(a)
}

// ArgAs returns the value typed as T.
//
// ok is false if the name is missing or the stored value is not a T.
func ArgAs[T any](a Args, name string) (T, bool) {
	v, err := TryArgAs[T](a, name)
	return v, err == nil
}

// TryArgAs returns the value typed as T.
//
// It returns:
//   - MissingArgError if the name is not present
//   - WrongTypeArgError if the name exists but is not a T
//
// A stored nil converts to the zero T when T can hold nil.
func TryArgAs[T any](a Args, name string) (T, error) {
	var zero T
	raw, ok := a[name]
	if !ok {
		return zero, MissingArgError{Name: name}
	}
	if raw == nil {
		if nilable(reflect.TypeFor[T]()) {
			return zero, nil
		}
		return zero, WrongTypeArgError{Name: name, GotType: "<nil>"}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, WrongTypeArgError{
			Name:    name,
			GotType: reflect.TypeOf(raw).String(),
		}
	}
	return v, nil
}

// MustArgAs returns the value typed as T or panics with the TryArgAs error.
func MustArgAs[T any](a Args, name string) T {
	v, err := TryArgAs[T](a, name)
	if err != nil {
		panic(err)
	}
	return v
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
