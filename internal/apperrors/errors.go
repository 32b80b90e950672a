package apperrors

import "errors"

// ErrNotFound indicates that a requested record could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrTransport indicates a network or upstream store failure. The message
// wrapped around it is surfaced verbatim to the caller; no retry is attempted.
var ErrTransport = errors.New("store transport error")

// ErrPartialFailure indicates that one leg of a fan-out to the two
// transaction collections failed. The composite operation fails as a whole;
// partially merged results are never returned.
var ErrPartialFailure = errors.New("partial collection failure")
