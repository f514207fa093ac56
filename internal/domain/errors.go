package domain

import "errors"

// Sentinel errors for the service layer. Wrap with fmt.Errorf("...: %w", err)
// and match at the transport boundary with errors.Is().
var (
	// ErrNotFound indicates a referenced file or folder id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a missing or malformed required field,
	// such as an empty folder name or empty paste content.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
)
