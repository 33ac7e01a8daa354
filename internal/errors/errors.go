// Package errors defines the stable, machine-readable error kinds returned
// across the ledger boundary.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind groups codes into the categories callers are expected to branch on.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindForbiddenTransition Kind = "forbidden_transition"
	KindAlreadySettled      Kind = "already_settled"
	KindForbiddenDelete     Kind = "forbidden_delete"
	KindNotFound            Kind = "not_found"
	KindPersistence         Kind = "persistence_error"
)

// DomainError carries a stable kind and code plus a human message.
// Err is the underlying cause and is never rendered to clients.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error

	parent *DomainError
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code, so a wrapped copy produced by WithMessage or Wrap is
// still equal to its sentinel. A sub-kind also matches its parent sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Code == t.Code {
			return true
		}
	}
	return false
}

// WithMessage returns a copy of the sentinel with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap returns a copy of the sentinel carrying err as its cause.
func (e *DomainError) Wrap(err error) *DomainError {
	cp := *e
	cp.Err = err
	return &cp
}

func newError(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func newSubError(parent *DomainError, kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message, parent: parent}
}

// KindOf reports the kind of err, or KindPersistence for anything that is not
// a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// As is a shorthand for errors.As on *DomainError.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	ok := stderrors.As(err, &de)
	return de, ok
}
