package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound signals that a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEventOutOfOrder signals a chronology violation: the new event's
	// timestamp precedes the latest recorded event for the same owner.
	ErrEventOutOfOrder = errors.New("event timestamp precedes latest recorded event")

	// ErrDuplicateEvent signals an exact (owner, type, timestamp) duplicate.
	ErrDuplicateEvent = errors.New("identical event already recorded")
)

// FieldErrors collects field-attributed validation failures.
// A nil or empty map means the value passed validation.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// ConflictError reports a uniqueness violation on a single field.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DeleteBlockedError refuses a delete while dependent rows exist.
// Counts holds the number of dependents per relation name.
type DeleteBlockedError struct {
	Resource string
	Counts   map[string]int
}

func (e *DeleteBlockedError) Error() string {
	keys := make([]string, 0, len(e.Counts))
	for k := range e.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, e.Counts[k]))
	}
	return fmt.Sprintf("cannot delete %s with associated records (%s)", e.Resource, strings.Join(parts, " "))
}
