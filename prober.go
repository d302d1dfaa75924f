package docconv

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Prober evaluates backend availability. Results are cached for the
// process lifetime keyed by descriptor name: installed-software state
// rarely changes mid-run, and probes must stay cheap. The cache is safe
// for concurrent use; it is not expected to survive process restarts.
type Prober struct {
	cache sync.Map // name -> probeResult
}

type probeResult struct {
	available bool
	reason    string
}

// NewProber returns a prober with an empty cache.
func NewProber() *Prober {
	return &Prober{}
}

// Probe reports whether the backend is usable, with a human-readable
// reason when it is not. The first probe per descriptor name runs the
// descriptor's predicate; subsequent calls return the cached result.
func (p *Prober) Probe(d Descriptor) (bool, string) {
	if cached, ok := p.cache.Load(d.Name); ok {
		res := cached.(probeResult)
		return res.available, res.reason
	}

	available, reason := d.Probe()
	p.cache.Store(d.Name, probeResult{available: available, reason: reason})
	return available, reason
}

// lookPath searches PATH for the first of several candidate binary names.
// An explicit override path wins when set and pointing at a regular file.
func lookPath(override string, names ...string) (string, bool) {
	if override != "" {
		if info, err := os.Stat(override); err == nil && !info.IsDir() {
			return override, true
		}
		return "", false
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// probeBinary builds a standard probe predicate for an executable known
// under one or more names, honoring an environment variable override.
func probeBinary(envOverride string, names ...string) func() (bool, string) {
	return func() (bool, string) {
		if _, ok := lookPath(os.Getenv(envOverride), names...); ok {
			return true, ""
		}
		return false, fmt.Sprintf("executable not found: %s (searched PATH; set %s to override)",
			strings.Join(names, ", "), envOverride)
	}
}
