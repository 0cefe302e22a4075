package model

// Task is a pending unit of frontier work: a URL to visit and the chain of
// referring pages that led to its discovery.
type Task struct {
	// URL is the normalized absolute URL to visit.
	URL string `json:"url"`

	// Trail records the referring pages, oldest first. It is used only to
	// bound exploration depth and is allowed to contain duplicates, so a
	// cyclic link graph simply produces a trail that hits the depth cap.
	Trail []string `json:"trail,omitempty"`
}

// Child returns the task for a link discovered on this task's page.
// The new trail is this task's trail extended with the referring URL.
func (t Task) Child(link, referrer string) Task {
	trail := make([]string, 0, len(t.Trail)+1)
	trail = append(trail, t.Trail...)
	trail = append(trail, referrer)
	return Task{URL: link, Trail: trail}
}

// Depth returns the length of the discovery trail.
func (t Task) Depth() int {
	return len(t.Trail)
}
