package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports bad input. Operations failing with it leave state unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports an operation on a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// PersistenceError lists the links whose remote write failed.
type PersistenceError struct {
	Failed map[string]error
}

func (e *PersistenceError) Error() string {
	ids := e.IDs()
	return fmt.Sprintf("persisting order failed for %d link(s): %s", len(ids), strings.Join(ids, ", "))
}

// IDs returns the failed link ids, sorted.
func (e *PersistenceError) IDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TrackingError reports a failed click write. It is never shown to visitors.
type TrackingError struct {
	LinkID string
	Stage  string // "append" or "increment"
	Err    error
}

func (e *TrackingError) Error() string {
	return fmt.Sprintf("tracking click for %s failed at %s: %v", e.LinkID, e.Stage, e.Err)
}

func (e *TrackingError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
