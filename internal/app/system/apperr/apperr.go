// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure so the HTTP layer can pick a status
// code without inspecting driver errors or message text.
type Kind int

const (
	// Validation is malformed or empty input (blank group name, blank body).
	Validation Kind = iota + 1
	// Conflict is a uniqueness violation (duplicate group name, username).
	Conflict
	// NotFound is a missing referenced entity (group, comment, user).
	NotFound
	// Authorization means the actor lacks the required relationship
	// (not a member, not the admin, not the author).
	Authorization
)

// Error is a kind-tagged error. Stores return these for every precondition
// failure; unexpected database errors pass through untagged.
type Error struct {
	kind Kind
	msg  string
}

// New builds an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.msg }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the Kind of err, or 0 when err carries no kind.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return 0
}

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return KindOf(err) == Validation }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return KindOf(err) == Conflict }

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsAuthorization reports whether err is an Authorization error.
func IsAuthorization(err error) bool { return KindOf(err) == Authorization }

// Status maps an error to the HTTP status code the API surfaces.
// Untagged errors map to 500.
func Status(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case Authorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
