package docconv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-docconv/internal/fileutil"
)

// Service drives the fallback chain for conversion requests. Instances
// share no mutable state beyond read-only registry lookups and the
// prober's availability cache, so independent requests may run on
// separate goroutines without coordination. Within one request,
// candidate attempts are strictly sequential.
type Service struct {
	registry *Registry
	prober   *Prober
	invoker  invoker
	timeout  time.Duration
}

// New creates a Service over the given registry with default
// configuration. Use options to customize behavior (e.g. WithTimeout).
func New(registry *Registry, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.prober == nil {
		s.prober = NewProber()
	}
	if s.invoker == nil {
		s.invoker = newProcessInvoker()
	}

	return s
}

// Convert attempts backends for the request's format pair in descending
// priority order and stops at the first success. The returned Result is
// non-nil even on failure and carries the complete per-backend attempt
// log; the error is one of ErrNoAvailableBackend, ErrExhausted, a
// context error on cancellation, or a validation sentinel.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	result := &Result{OutputPath: req.OutputPath}
	candidates := s.selectCandidates(req, result)

	if len(candidates) == 0 {
		result.Elapsed = time.Since(start)
		return result, fmt.Errorf("%w: %s (%s)",
			ErrNoAvailableBackend, Pair{req.Source, req.Target}, summarizeSkips(result.Skipped))
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}

	for _, d := range candidates {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}

		attempt := s.invoker.Invoke(ctx, d, req, timeout)
		result.Attempts = append(result.Attempts, attempt)

		if attempt.Err == nil {
			result.BackendUsed = d.Name
			result.Elapsed = time.Since(start)
			return result, nil
		}

		// Cancellation is terminal: skip remaining candidates rather
		// than falling back.
		if ctx.Err() != nil {
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		}
	}

	result.Elapsed = time.Since(start)
	return result, fmt.Errorf("%w: %s (%d attempts)",
		ErrExhausted, Pair{req.Source, req.Target}, len(result.Attempts))
}

// validateRequest checks request fields before any backend work.
func (s *Service) validateRequest(req Request) error {
	if req.Source == "" || req.Target == "" {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidFormatPair, req.Source, req.Target)
	}
	if req.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	if !fileutil.FileExists(req.InputPath) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, req.InputPath)
	}
	return nil
}

// selectCandidates filters the registry's ordered descriptors by probe
// availability and the request's exclusion set, recording every skip
// with its reason.
func (s *Service) selectCandidates(req Request, result *Result) []Descriptor {
	descriptors := s.registry.Lookup(req.Source, req.Target)
	candidates := make([]Descriptor, 0, len(descriptors))

	for _, d := range descriptors {
		if req.excluded(d.Name) {
			result.Skipped = append(result.Skipped, Skip{Backend: d.Name, Reason: "excluded by request"})
			continue
		}
		if available, reason := s.prober.Probe(d); !available {
			result.Skipped = append(result.Skipped, Skip{Backend: d.Name, Reason: reason})
			continue
		}
		candidates = append(candidates, d)
	}

	return candidates
}

// summarizeSkips joins skip reasons for the NoAvailableBackend message,
// so the caller can surface actionable install instructions rather than
// a bare "not found".
func summarizeSkips(skips []Skip) string {
	if len(skips) == 0 {
		return "no backends registered"
	}
	parts := make([]string, len(skips))
	for i, s := range skips {
		parts[i] = s.Backend + ": " + s.Reason
	}
	return strings.Join(parts, "; ")
}
