package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// InvalidStateError means the operation is not legal from the entity's
// current lifecycle state.
type InvalidStateError struct {
	Resource string
	Current  string
	Msg      string
}

func (e InvalidStateError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Resource != "" && e.Current != "" {
		return fmt.Sprintf("%s is '%s'", e.Resource, e.Current)
	}
	return "invalid state"
}

// PreconditionError is a business-rule violation: capacity exceeded,
// expired license, suspended driver, active-trip block.
type PreconditionError struct {
	Msg string
	Err error
}

func (e PreconditionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "precondition failed"
}

func (e PreconditionError) Unwrap() error { return e.Err }

// ConflictError means the caller lost a resource lock race. Retryable
// after re-reading current state.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Role string
}

func (e ForbiddenError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("insufficient permissions for role '%s'", e.Role)
	}
	return "insufficient permissions"
}

// UnavailableError signals store connectivity failure. It must never be
// reported as NotFound.
type UnavailableError struct {
	Err error
}

func (e UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store unavailable: %v", e.Err)
	}
	return "store unavailable"
}

func (e UnavailableError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsPrecondition(err error) bool {
	var target PreconditionError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}
