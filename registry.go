package docconv

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps format pairs to ordered sets of backend descriptors.
// Registration is serialized; Lookup is safe for concurrent use once the
// registration phase is complete. A Registry is constructed explicitly at
// startup (no import-time side effects) so tests can build a fresh one
// with only stub descriptors.
type Registry struct {
	mu       sync.Mutex
	backends map[Pair][]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[Pair][]Descriptor)}
}

// Register adds a descriptor to the ordered set for its format pair.
// Returns ErrDuplicateBackend if a descriptor with the same name is
// already registered for that pair.
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pair := d.pair()
	for _, existing := range r.backends[pair] {
		if existing.Name == d.Name {
			return fmt.Errorf("%w: %q for %s", ErrDuplicateBackend, d.Name, pair)
		}
	}

	set := append(r.backends[pair], d)
	// Descending priority; SliceStable keeps registration order for ties,
	// which makes candidate order deterministic across runs.
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Priority > set[j].Priority
	})
	r.backends[pair] = set
	return nil
}

// Lookup returns the descriptors registered for the pair, in strictly
// descending priority order (registration order within equal priority).
// The returned slice is a copy; callers cannot mutate registry state.
func (r *Registry) Lookup(source, target string) []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.backends[Pair{Source: source, Target: target}]
	if len(set) == 0 {
		return nil
	}
	out := make([]Descriptor, len(set))
	copy(out, set)
	return out
}

// Pairs returns every registered format pair, sorted for stable output.
func (r *Registry) Pairs() []Pair {
	r.mu.Lock()
	defer r.mu.Unlock()

	pairs := make([]Pair, 0, len(r.backends))
	for p := range r.backends {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Source != pairs[j].Source {
			return pairs[i].Source < pairs[j].Source
		}
		return pairs[i].Target < pairs[j].Target
	})
	return pairs
}

// RegisterDefaults registers the stock backends. Registration is explicit
// and eager: the core never discovers backends dynamically from disk.
func RegisterDefaults(r *Registry) error {
	registrations := [][]Descriptor{
		sofficeDescriptors(),
		pandocDescriptors(),
		chromiumDescriptors(),
		goldmarkDescriptors(),
	}
	for _, set := range registrations {
		for _, d := range set {
			if err := r.Register(d); err != nil {
				return err
			}
		}
	}
	return nil
}
