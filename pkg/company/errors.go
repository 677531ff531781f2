package company

import "errors"

var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyAlreadyExists = errors.New("company already exists")

	// ErrConflict indicates an optimistic-concurrency conflict that persisted
	// after the store's bounded retries. Callers may retry the whole operation.
	ErrConflict = errors.New("concurrent company update conflict")

	// ErrInvariantViolation marks corrupted tenant state (negative counters,
	// unknown status). It is a system fault, distinct from any policy denial,
	// and is never silently repaired.
	ErrInvariantViolation = errors.New("company state invariant violation")
)
