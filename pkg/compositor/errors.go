// Package compositor renders single overlay-on-hero jobs: static image
// compositing, video overlay encoding, and preview frame extraction.
package compositor

import (
	"errors"
	"fmt"

	"github.com/creativelab/compositor/pkg/schemas"
)

// Error wraps a compositing fault with its failure classification so the
// executor can aggregate failures by class without string matching.
type Error struct {
	Class schemas.FailureClass
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(class schemas.FailureClass, op string, err error) *Error {
	return &Error{Class: class, Op: op, Err: err}
}

// Classify returns the failure class of err. Unclassified errors fall back
// to the write class, which covers the residual "could not produce output"
// cases.
func Classify(err error) schemas.FailureClass {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Class
	}
	return schemas.FailureWrite
}
