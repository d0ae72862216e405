/*
errors.go - Centralized error types for the roster package

The engine itself is fail-closed and errorless: unresolved inputs surface
as absent derived values, never as errors. Errors exist only on the
collaborator boundary (key-value store reads/writes) and on exception
record lifecycle operations.
*/
package roster

import "errors"

var (
	// ErrExceptionNotFound is returned when updating or deleting an
	// exception record whose ID is not in the store.
	ErrExceptionNotFound = errors.New("exception record not found")

	// ErrSpecialCaseNotFound is the same for manual follow-up records.
	ErrSpecialCaseNotFound = errors.New("special case record not found")
)
