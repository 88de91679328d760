package common

import "errors"

var (
	// ErrReasoningUnavailable means the reasoning service could not be reached
	// or answered with nothing.
	ErrReasoningUnavailable = errors.New("reasoning service unavailable")
	// ErrMalformedResponse means the response text did not contain a parseable payload.
	ErrMalformedResponse = errors.New("malformed reasoning response")
	// ErrIncompleteResponse means the payload parsed but lacked a required field.
	ErrIncompleteResponse = errors.New("incomplete reasoning response")
	// ErrInsufficientData means there is not enough price history to act on.
	ErrInsufficientData = errors.New("insufficient price history")
	// ErrStaleEvaluationInput means a price bar around the target date is missing.
	ErrStaleEvaluationInput = errors.New("price bar missing around target date")
	// ErrDuplicateIngestion means the record already exists.
	ErrDuplicateIngestion = errors.New("duplicate record")
	// ErrTransportFailure wraps network and non-2xx failures from data providers.
	ErrTransportFailure = errors.New("data provider transport failure")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput is returned for rejected API input.
	ErrInvalidInput = errors.New("invalid input")
)
