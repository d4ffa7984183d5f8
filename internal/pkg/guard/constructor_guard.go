// Package guard detects value objects and commands that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types whose zero value is invalid.
// Only NewConstructorGuard produces a guard that passes validation.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes Validate.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns notConstructed (or ErrDefaultConstructorGuard when nil) for a zero-value guard.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.isConstructed {
		return nil
	}
	if notConstructed == nil {
		return ErrDefaultConstructorGuard
	}
	return notConstructed
}
