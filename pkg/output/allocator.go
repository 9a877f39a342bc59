package output

import (
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/ccreverse/pkg/errors"
)

// unnamed replaces asset names that are empty or cannot be repaired.
const unnamed = "unnamed"

// Allocator hands out unique file names per output directory.
//
// Each directory has one counter, starting at 0 and shared by every name in
// that directory. A candidate already taken gets "_<counter>" inserted before
// its extension and the counter advances until a free name is found, so
// a.png, a.png, a.png become a.png, a_0.png, a_1.png. Results depend on
// allocation order. Allocator is safe for concurrent use.
type Allocator struct {
	mu       sync.Mutex
	used     map[string]map[string]struct{}
	counters map[string]int
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		used:     make(map[string]map[string]struct{}),
		counters: make(map[string]int),
	}
}

// Allocate reserves a name in dir based on candidate and returns it.
func (a *Allocator) Allocate(dir, candidate string) string {
	name := sanitize(candidate)

	a.mu.Lock()
	defer a.mu.Unlock()

	taken := a.used[dir]
	if taken == nil {
		taken = make(map[string]struct{})
		a.used[dir] = taken
	}
	if _, ok := taken[name]; !ok {
		taken[name] = struct{}{}
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for {
		n := a.counters[dir]
		a.counters[dir] = n + 1
		next := stem + "_" + strconv.Itoa(n) + ext
		if _, ok := taken[next]; !ok {
			taken[next] = struct{}{}
			return next
		}
	}
}

func sanitize(candidate string) string {
	if strings.Trim(candidate, ".") == "" {
		return unnamed
	}
	ext := path.Ext(candidate)
	if strings.TrimSuffix(candidate, ext) == "" {
		return unnamed + ext
	}
	return errors.SanitizeAssetName(candidate, unnamed+ext)
}
