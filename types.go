package docconv

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Common format tags. Descriptors are not limited to these; any lowercase
// extension-like tag works.
const (
	FormatDOCX = "docx"
	FormatDOC  = "doc"
	FormatODT  = "odt"
	FormatPDF  = "pdf"
	FormatMD   = "md"
	FormatHTML = "html"
)

// Pair identifies a source-to-target conversion.
type Pair struct {
	Source string
	Target string
}

// ParsePair parses a "src2dst" tag (e.g. "docx2pdf") into a Pair.
func ParsePair(s string) (Pair, error) {
	src, dst, ok := strings.Cut(strings.ToLower(s), "2")
	if !ok || src == "" || dst == "" {
		return Pair{}, fmt.Errorf("%w: %q (want src2dst, e.g. docx2pdf)", ErrInvalidFormatPair, s)
	}
	return Pair{Source: src, Target: dst}, nil
}

// String returns the pair in "src2dst" form.
func (p Pair) String() string {
	return p.Source + "2" + p.Target
}

// Job is the unit of work handed to a backend: convert InputPath into
// OutputPath, using Workspace as a private scratch directory. The workspace
// is created before the backend runs and removed after, on every exit path.
type Job struct {
	InputPath  string
	OutputPath string
	Workspace  string
}

// Descriptor is the static metadata for one conversion backend.
// Exactly one of Command or Run must be set: Command builds an external
// subprocess invocation, Run performs the conversion in-process.
// Descriptors are immutable after registration.
type Descriptor struct {
	Name     string
	Source   string
	Target   string
	Priority int

	// Probe reports whether the backend is currently usable, with a
	// human-readable reason when it is not. Must be cheap and free of
	// side effects beyond read-only filesystem/PATH inspection.
	Probe func() (bool, string)

	// Command builds the argv for an external backend. The returned
	// command is run inside the job's scratch workspace.
	Command func(job Job) (name string, args []string)

	// Run performs the conversion in-process. It must honor ctx and
	// write a non-empty file at job.OutputPath on success.
	Run func(ctx context.Context, job Job) error

	// Collect, optional and only with Command, moves products the tool
	// left in the workspace to job.OutputPath after a zero-status exit.
	// Tools that cannot be pointed at an exact output file (office
	// suites with an --outdir flag) need this step.
	Collect func(job Job) error
}

// pair returns the descriptor's format pair.
func (d Descriptor) pair() Pair {
	return Pair{Source: d.Source, Target: d.Target}
}

// validate checks structural requirements before registration.
func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}
	if d.Source == "" || d.Target == "" {
		return fmt.Errorf("%w: %q has empty format tag", ErrInvalidDescriptor, d.Name)
	}
	if d.Probe == nil {
		return fmt.Errorf("%w: %q has no probe", ErrInvalidDescriptor, d.Name)
	}
	if (d.Command == nil) == (d.Run == nil) {
		return fmt.Errorf("%w: %q must set exactly one of Command or Run", ErrInvalidDescriptor, d.Name)
	}
	if d.Collect != nil && d.Command == nil {
		return fmt.Errorf("%w: %q sets Collect without Command", ErrInvalidDescriptor, d.Name)
	}
	return nil
}

// Request describes one conversion. Created per call, never persisted.
type Request struct {
	InputPath  string
	OutputPath string
	Source     string
	Target     string

	// Timeout overrides the service default for this request only.
	// Zero means use the service default.
	Timeout time.Duration

	// Exclude lists backend names to skip, for retry-without-repeat.
	Exclude []string
}

// excluded reports whether name is in the request's exclusion set.
func (r Request) excluded(name string) bool {
	for _, n := range r.Exclude {
		if n == name {
			return true
		}
	}
	return false
}

// Attempt records one backend invocation and its outcome, in order.
type Attempt struct {
	Backend string
	Err     error // nil for the successful attempt
	Elapsed time.Duration
	Stderr  string // tail of captured stderr, for diagnostics only
}

// Skip records a backend excluded before invocation, with the reason
// (probe failure or explicit exclusion).
type Skip struct {
	Backend string
	Reason  string
}

// Result is the outcome of a conversion request. On failure it still
// carries the complete per-backend attempt log and skip reasons; nothing
// is collapsed to only the last error.
type Result struct {
	BackendUsed string
	OutputPath  string
	Elapsed     time.Duration
	Attempts    []Attempt
	Skipped     []Skip
}

// AttemptLog renders the attempts and skips as human-readable lines.
func (r *Result) AttemptLog() string {
	var b strings.Builder
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "skipped %s: %s\n", s.Backend, s.Reason)
	}
	for _, a := range r.Attempts {
		if a.Err == nil {
			fmt.Fprintf(&b, "%s: ok (%s)\n", a.Backend, a.Elapsed.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(&b, "%s: %v (%s)\n", a.Backend, a.Err, a.Elapsed.Round(time.Millisecond))
	}
	return b.String()
}

// DefaultTimeout bounds a single backend invocation when neither the
// service nor the request overrides it.
const DefaultTimeout = 120 * time.Second

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the default per-attempt timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docconv: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.timeout = d
	}
}

// WithProber replaces the capability prober (e.g. by tests).
func WithProber(p *Prober) Option {
	return func(s *Service) {
		s.prober = p
	}
}

// WithInvoker replaces the process invoker (e.g. by tests).
func WithInvoker(inv invoker) Option {
	return func(s *Service) {
		s.invoker = inv
	}
}
