package crawler

import "github.com/nao1215/linkpatrol/internal/model"

// DefaultMaxTrailDepth caps how long a discovery trail may grow before the
// URL is dropped. Faceted-search and calendar pages can generate endless
// distinct links; a fixed depth cap is a blunt but effective guard.
const DefaultMaxTrailDepth = 5

// followPolicy decides, at insertion time, whether a discovered URL enters
// the frontier. Evaluating at insertion rather than at pop keeps the
// frontier size an accurate count of real pending work.
//
// The already-visited and already-in-flight checks live in the engine's
// enqueue path, where they can be made atomic with the frontier insert.
type followPolicy struct {
	// trailTracking enables the depth cap. When disabled all links are
	// treated uniformly and trails are ignored.
	trailTracking bool

	// maxTrailDepth is the trail length at which URLs stop being followed.
	maxTrailDepth int
}

// shouldFollow reports whether the task may enter the frontier.
func (p followPolicy) shouldFollow(task model.Task) bool {
	if !model.ValidScheme(task.URL) {
		return false
	}
	if p.trailTracking && task.Depth() >= p.maxTrailDepth {
		return false
	}
	return true
}
