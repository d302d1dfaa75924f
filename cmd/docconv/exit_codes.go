package main

import (
	"context"
	"errors"
	"os"

	docconv "github.com/alnah/go-docconv"
	"github.com/alnah/go-docconv/internal/config"
)

// Exit codes for the docconv CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitNoBackend = 4 // No backend available for the format pair
	ExitExhausted = 5 // Every available backend was tried and failed
	ExitCancelled = 6 // Interrupted mid-conversion
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitCancelled
	}

	if errors.Is(err, docconv.ErrNoAvailableBackend) {
		return ExitNoBackend
	}

	if errors.Is(err, docconv.ErrExhausted) {
		return ExitExhausted
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, docconv.ErrInputNotFound) ||
		errors.Is(err, ErrNoInputFiles) ||
		errors.Is(err, ErrOutputNotDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, docconv.ErrInvalidFormatPair) ||
		errors.Is(err, docconv.ErrEmptyOutputPath) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoOutput) ||
		errors.Is(err, ErrNoType) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
