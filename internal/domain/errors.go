package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation malformed or missing booking draft fields
	ErrValidation = errors.New("validation failed")

	// ErrSlotConflict the requested slot is no longer free
	ErrSlotConflict = errors.New("slot is no longer available")

	// ErrIllegalTransition the booking status does not allow the requested action
	ErrIllegalTransition = errors.New("illegal booking transition")

	// ErrStoreUnavailable the backing store could not be reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrBookingNotFound no booking with the given id
	ErrBookingNotFound = errors.New("booking not found")

	// ErrForbidden the caller does not own the resource
	ErrForbidden = errors.New("forbidden")
)

// ValidationError collects field-level problems of one request
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a problem with field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil returns e when it has errors and nil otherwise
func (e *ValidationError) ErrOrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError describes a rejected status change
type TransitionError struct {
	From   BookingStatus
	Action string
}

// NewTransitionError builds a TransitionError
func NewTransitionError(from BookingStatus, action string) *TransitionError {
	return &TransitionError{From: from, Action: action}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s a %s booking", ErrIllegalTransition.Error(), e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}
