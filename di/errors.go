package di

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrIntrospection is matched by every IntrospectionError.
	ErrIntrospection = errors.New("di: unusable dependency declaration")

	// ErrCycle is matched by every CycleError.
	ErrCycle = errors.New("di: dependency cycle detected")

	// ErrProtocol is matched by every ProtocolError: a provider suspended zero
	// times on enter, or more than once overall.
	ErrProtocol = errors.New("di: resource protocol violation")

	// ErrProviderPanic is matched by a PanicError raised inside a provider.
	ErrProviderPanic = errors.New("di: panic in provider")

	// ErrTargetPanic is matched by a PanicError raised inside an injected target.
	ErrTargetPanic = errors.New("di: panic in target")

	// ErrScopeClosed is returned from Yield when a provider yields after its
	// scope has already stopped it.
	ErrScopeClosed = errors.New("di: scope closed")

	// ErrEmptySlot is recorded when Provide is called with an empty slot name.
	ErrEmptySlot = errors.New("di: empty slot name")

	// ErrNilProvider is recorded when Provide is called with a nil provider func.
	ErrNilProvider = errors.New("di: nil provider function")
)

// DuplicateSlotError is recorded when a slot is registered more than once.
type DuplicateSlotError struct{ Slot string }

// Error implements the error interface.
func (e *DuplicateSlotError) Error() string {
	// Example: di: duplicate slot "db"
	return "di: duplicate slot " + strconv.Quote(e.Slot)
}

// IntrospectionError reports declaration metadata that cannot be used to
// build a plan. Owner is the slot whose declarations were being read, or
// empty for the target itself.
type IntrospectionError struct {
	Owner  string
	Arg    string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("di: ")
	if e.Owner == "" {
		b.WriteString("target")
	} else {
		b.WriteString("slot ")
		b.WriteString(strconv.Quote(e.Owner))
	}
	if e.Arg != "" {
		b.WriteString(" argument ")
		b.WriteString(strconv.Quote(e.Arg))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports ErrIntrospection.
func (e *IntrospectionError) Is(target error) bool { return target == ErrIntrospection }

// Unwrap returns the underlying registration error, if any.
func (e *IntrospectionError) Unwrap() error { return e.Err }

// CycleError is returned when a declaration refers back to a slot already on
// the current resolution path, or when the path grows past the depth bound.
type CycleError struct {
	// Chain is the resolution path ending with the offending slot.
	Chain []string

	// DepthExceeded is set when the walk was stopped by the depth bound rather
	// than by seeing a slot twice.
	DepthExceeded bool
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if e.DepthExceeded {
		return fmt.Sprintf("%s: depth bound exceeded: %s", ErrCycle, strings.Join(e.Chain, " -> "))
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Chain, " -> "))
}

// Is reports ErrCycle.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// ProtocolError reports a provider that broke the suspend-exactly-once
// contract. Cause is the error that was unwinding when it happened, if any.
type ProtocolError struct {
	Slot   string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	// Example: di: resource protocol violation: slot "db": provider did not suspend
	msg := ErrProtocol.Error() + ": slot " + strconv.Quote(e.Slot) + ": " + e.Reason
	if e.Cause != nil {
		msg += " (while unwinding: " + e.Cause.Error() + ")"
	}
	return msg
}

// Unwrap exposes ErrProtocol and the unwinding cause.
func (e *ProtocolError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrProtocol}
	}
	return []error{ErrProtocol, e.Cause}
}

// PanicError carries a recovered panic value. Slot is empty for target panics.
type PanicError struct {
	Slot  string
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("%s: %v", ErrTargetPanic, e.Value)
	}
	return fmt.Sprintf("%s %s: %v", ErrProviderPanic, strconv.Quote(e.Slot), e.Value)
}

// Is reports ErrTargetPanic or ErrProviderPanic depending on where the panic
// happened.
func (e *PanicError) Is(target error) bool {
	if e.Slot == "" {
		return target == ErrTargetPanic
	}
	return target == ErrProviderPanic
}

// Unwrap returns the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// TeardownError is returned by Scope.Close when a provider replaced the error
// that was unwinding through it. Err is the error that survived; Displaced
// lists every replaced error, innermost first. Only Err takes part in
// errors.Is and errors.As.
type TeardownError struct {
	Err       error
	Displaced []error
}

// Error implements the error interface.
func (e *TeardownError) Error() string {
	parts := make([]string, len(e.Displaced))
	for i, d := range e.Displaced {
		parts[i] = d.Error()
	}
	return e.Err.Error() + " (displaced: " + strings.Join(parts, "; ") + ")"
}

// Unwrap returns the surviving error.
func (e *TeardownError) Unwrap() error { return e.Err }

// MissingArgError is returned when a resolved argument is not present.
//
// It is used by TryArgAs to distinguish "missing" from "wrong type".
type MissingArgError struct{ Name string }

// Error implements the error interface.
func (e MissingArgError) Error() string {
	// Example: di: argument "db" missing
	return "di: argument " + strconv.Quote(e.Name) + " missing"
}

// WrongTypeArgError is returned when an argument exists but holds a
// different type than requested.
type WrongTypeArgError struct {
	// Name is the argument requested.
	Name string

	// GotType is reflect.TypeOf(raw).String() for the stored value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeArgError) Error() string {
	// Example: di: argument "db" has wrong type (*sql.DB)
	return "di: argument " + strconv.Quote(e.Name) + " has wrong type (" + e.GotType + ")"
}

// sameError reports whether a and b are the same error instance. Dynamic
// types that are not comparable are never considered the same.
func sameError(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
