package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a record or entity does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrValidation is returned for malformed identifiers or payloads.
	ErrValidation = errors.New("store: validation failed")
	// ErrFailure wraps provider failures such as transport errors.
	ErrFailure = errors.New("store: operation failed")
)

// Error carries the entity context of a failed repository call. Kind is one
// of the sentinel errors above so callers can branch with errors.Is.
type Error struct {
	Kind    error
	Entity  string
	ID      int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != 0 {
			b.WriteString(" ")
			b.WriteString(strconv.Itoa(e.ID))
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds an ErrNotFound error for entity/id.
func NotFound(entity string, id int) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Invalid builds an ErrValidation error.
func Invalid(entity, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// Failure wraps err as an ErrFailure for entity.
func Failure(entity string, err error) error {
	return &Error{Kind: ErrFailure, Entity: entity, Err: err}
}

// ParseID converts a raw identifier into an integer id.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &Error{Kind: ErrValidation, Message: "invalid id: must be an integer"}
	}
	return id, nil
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
