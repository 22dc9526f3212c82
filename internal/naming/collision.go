package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver remembers which input claimed each output path during a
// run. Two inputs that map to the same output (movie.avi and movie.mp4 both
// becoming movie.mkv) get distinct " - dupN" names, so one input is never
// compared against another input's output. All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // output path → input path that owns it
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{owners: make(map[string]string)}
}

// Resolve returns the output path input may use. An unclaimed path, or one
// already owned by input, is returned as-is; otherwise the first free
// " - dupN" variant is claimed. Asking again with the same input returns
// the variant it already holds.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requested]
	if !exists || owner == input {
		cr.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == input {
			cr.owners[candidate] = input
			return candidate
		}
	}
}

// reservedOwner never equals a real input path.
const reservedOwner = "\x00reserved"

// Reserve marks path as taken by something other than an output, such as a
// source file sitting in the output directory. Resolve never hands it out.
func (cr *CollisionResolver) Reserve(path string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.owners[path] = reservedOwner
}
