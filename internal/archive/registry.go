package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps file extensions to the Opener that reads them. Lookups pick
// the longest registered extension matching the end of the path, so
// ".abc.hcl" wins over ".hcl".
type Registry struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

// Register binds an extension (including its leading dot) to an opener.
// Extensions are matched case-insensitively.
func (r *Registry) Register(ext string, o Opener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[strings.ToLower(ext)] = o
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.openers))
	for ext := range r.openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup returns the opener for path.
func (r *Registry) Lookup(path string) (Opener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lower := strings.ToLower(path)
	best := ""
	for ext := range r.openers {
		if strings.HasSuffix(lower, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		return nil, false
	}
	return r.openers[best], true
}

// Open opens path with the opener registered for its extension.
func (r *Registry) Open(ctx context.Context, path string) (Archive, error) {
	o, ok := r.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return o.Open(ctx, path)
}
