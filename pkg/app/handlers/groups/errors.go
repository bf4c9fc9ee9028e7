package groups

import (
	"github.com/pkg/errors"
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	PreconditionFailed
	InvalidInput
	LookupFailed
	ReferentialIntegrityViolation
	NotFound
	RemovalFailed
	StorageFailed
)

const msgGroupHasTickets = "Cannot delete a group with tickets."

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case PreconditionFailed:
		return "precondition_failed"
	case InvalidInput:
		return "invalid_input"
	case LookupFailed:
		return "lookup_failed"
	case ReferentialIntegrityViolation:
		return "referential_integrity_violation"
	case NotFound:
		return "not_found"
	case RemovalFailed:
		return "removal_failed"
	case StorageFailed:
		return "storage_failed"
	default:
		return "unknown"
	}
}

// Error is returned by every GroupHandler operation.
// Msg is safe to hand back to API callers.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Msg: err.Error(), Err: err}
}

// KindOf returns the kind of a GroupHandler error, or StorageFailed for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr.Kind
	}

	return StorageFailed
}
