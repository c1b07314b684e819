package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure so front ends can map it to a response.
type Kind string

const (
	KindValidation Kind = "validation"
	KindReference  Kind = "reference"
	KindNotFound   Kind = "not_found"
	KindStore      Kind = "store"
)

// Sentinel errors, one per kind. Match with errors.Is.
var (
	// ErrValidation covers empty or malformed fields, bad dates, non-increasing
	// meters and out-of-range years.
	ErrValidation = errors.New("validation error")

	// ErrReference is returned when a client or machine id does not resolve,
	// or when a delete would leave work records dangling.
	ErrReference = errors.New("reference error")

	// ErrNotFound is returned when a report is requested for a missing record.
	ErrNotFound = errors.New("not found")

	// ErrStore wraps any persistence failure.
	ErrStore = errors.New("store error")
)

// Error is the single error type returned by the ledger.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against its kind's sentinel.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindReference:
		return ErrReference
	case KindNotFound:
		return ErrNotFound
	case KindStore:
		return ErrStore
	}
	return nil
}

// KindOf extracts the kind of a ledger error, or "" for foreign errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// Detail returns the human-readable detail of a ledger error, falling back to
// err.Error() for anything else.
func Detail(err error) string {
	var le *Error
	if errors.As(err, &le) {
		return le.Detail
	}
	return err.Error()
}

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func referencef(format string, args ...any) error {
	return &Error{Kind: KindReference, Detail: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

func storeErr(detail string, err error) error {
	return &Error{Kind: KindStore, Detail: detail, Err: err}
}
