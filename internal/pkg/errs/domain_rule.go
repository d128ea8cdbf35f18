package errs

import (
	"errors"
	"fmt"
)

// ErrDomainRule is the sentinel for expected business-rule failures: wrong status,
// wrong owner, missing authorization, insufficient credit. Handlers recover these
// at the boundary and turn them into structured results instead of propagating
// them as infrastructure errors.
var ErrDomainRule = errors.New("domain rule violated")

// DomainRuleError is an expected, non-exceptional business outcome.
// Instances are declared once per rule in the owning domain package so that
// callers can match them with errors.Is.
type DomainRuleError struct {
	Reason string
}

// NewDomainRuleError creates a DomainRuleError with a human-readable reason.
func NewDomainRuleError(reason string) *DomainRuleError {
	return &DomainRuleError{Reason: reason}
}

func (e *DomainRuleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDomainRule, e.Reason)
}

func (e *DomainRuleError) Unwrap() error {
	return ErrDomainRule
}
