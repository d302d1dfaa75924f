package docconv

import "errors"

// Sentinel errors for library operations.
var (
	// Registration errors.
	ErrDuplicateBackend  = errors.New("backend already registered for format pair")
	ErrInvalidDescriptor = errors.New("invalid backend descriptor")

	// Request validation errors.
	ErrInvalidFormatPair = errors.New("invalid format pair")
	ErrInputNotFound     = errors.New("input file not found")
	ErrEmptyOutputPath   = errors.New("output path cannot be empty")

	// Per-attempt failures, recorded in the attempt log and wrapped
	// into ErrExhausted when every candidate fails.
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrConversionFailed   = errors.New("conversion failed")
	ErrConversionTimeout  = errors.New("conversion timed out")
	ErrEmptyOutput        = errors.New("backend produced no output")

	// Terminal orchestration outcomes.
	ErrNoAvailableBackend = errors.New("no available backend for format pair")
	ErrExhausted          = errors.New("all backends failed")
)
