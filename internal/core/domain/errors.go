package domain

import "errors"

// Sentinel errors for the review and representation workflows.
// Services wrap these with context; handlers match them with errors.Is.
var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates the operation is not legal in the entity's
	// current lifecycle state (nothing pending to review, request already
	// decided). A racing reviewer losing the compare-and-swap also ends up
	// here from the caller's point of view: the item was already decided.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation indicates caller-supplied arguments violate a precondition.
	ErrValidation = errors.New("validation error")

	// ErrVersionConflict indicates an optimistic-concurrency failure at the
	// store: the record changed between read and write. Retryable.
	ErrVersionConflict = errors.New("version conflict")
)
