package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Key      string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource != "" && e.Key != "":
		return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
	case e.Resource != "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return "not found"
	}
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

// ValidationErrors collects every offending field of one request or row.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// Fields lists the offending field names in order.
func (e ValidationErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, v := range e {
		if v.Field != "" {
			out = append(out, v.Field)
		}
	}
	return out
}

// OrNil returns nil for an empty list so callers can return it directly.
func (e ValidationErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

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

// TransientIOError marks a file system or upload failure. It is always fatal to the request.
type TransientIOError struct {
	Op  string
	Err error
}

func (e TransientIOError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e TransientIOError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

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
	var single ValidationError
	if errors.As(err, &single) {
		return true
	}
	var list ValidationErrors
	return errors.As(err, &list)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsTransientIO(err error) bool {
	var target TransientIOError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// InvalidFields extracts the offending field names from a validation error.
func InvalidFields(err error) []string {
	var list ValidationErrors
	if errors.As(err, &list) {
		return list.Fields()
	}
	var single ValidationError
	if errors.As(err, &single) && single.Field != "" {
		return []string{single.Field}
	}
	return nil
}
