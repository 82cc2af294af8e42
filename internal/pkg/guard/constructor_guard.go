// Package guard implements the constructor-guard pattern used by commands
// and value objects to detect zero-value instances that bypassed their
// constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// error is supplied for a failed guard check.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as having been built through its
// designated constructor. Embedding a guard and calling Validate before use
// rejects zero-value instances, which keeps invariants established during
// construction trustworthy everywhere else.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owner as properly
// constructed. Call it inside the owner's constructor only.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owner was built via its constructor, or the
// supplied error otherwise. A nil err falls back to
// ErrDefaultConstructorGuard so validation never silently passes.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
