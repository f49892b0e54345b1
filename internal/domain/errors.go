package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Gateway errors
	ErrMsgFetchFailed = "fetch failed"

	// Transfer validation errors
	ErrMsgInvalidDestination = "invalid destination warehouse"
	ErrMsgInvalidQuantity    = "transfer quantity must be positive"
	ErrMsgCapacityExceeded   = "quantity exceeds destination capacity"

	// Store errors
	ErrMsgStaleReference = "record no longer present"
	ErrMsgNotConfirmed   = "delete not confirmed"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	// ErrFetch covers network failures and non-2xx responses on reads.
	ErrFetch = errors.New(ErrMsgFetchFailed)

	// Transfer validation errors. These block submission and never touch
	// local state.
	ErrInvalidDestination = errors.New(ErrMsgInvalidDestination)
	ErrInvalidQuantity    = errors.New(ErrMsgInvalidQuantity)
	ErrCapacityExceeded   = errors.New(ErrMsgCapacityExceeded)

	// ErrStaleReference means an intent targeted an id no longer in the
	// local collection (double-delete, transfer of a removed row).
	ErrStaleReference = errors.New(ErrMsgStaleReference)

	// ErrNotConfirmed is returned when a delete intent arrives without the
	// explicit confirmation gate; no gateway call is issued.
	ErrNotConfirmed = errors.New(ErrMsgNotConfirmed)
)
