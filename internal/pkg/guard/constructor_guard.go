// Package guard provides a defensive pattern that ensures value objects and
// entities are only created through their designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil validation error
// is supplied for an object that was not properly constructed.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether a struct was created through its constructor
// or left as a zero value. Embed one in a command or value object and set it
// with NewConstructorGuard inside the constructor.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the object was properly constructed.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
