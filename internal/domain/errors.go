package domain

import "errors"

// Sentinel errors shared by use cases and adapters.
// Callers wrap them with fmt.Errorf("...: %w") and test with errors.Is.
var (
	// ErrNotFound is returned when a symbol, holding, portfolio or alert does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when an input fails validation
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientQuantity is returned when a sell exceeds the held quantity
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrPersistenceConflict is returned on a uniqueness violation in the store
	ErrPersistenceConflict = errors.New("persistence conflict")

	// ErrTransportFailure is returned when the market data upstream cannot be reached
	ErrTransportFailure = errors.New("transport failure")

	// ErrMalformedPayload is returned when the upstream answers with an unparseable body
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrNotReady is returned when the portfolio store has no active user or portfolio yet
	ErrNotReady = errors.New("portfolio store not ready")
)
