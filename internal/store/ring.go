package store

import "creativesuite/internal/domain"

// activityRing is a fixed-capacity append-only buffer. When full, appending
// overwrites the oldest entry.
type activityRing struct {
	entries []domain.ActivityEntry
	start   int
	size    int
}

func newActivityRing(capacity int) *activityRing {
	return &activityRing{entries: make([]domain.ActivityEntry, capacity)}
}

func (r *activityRing) append(e domain.ActivityEntry) {
	if len(r.entries) == 0 {
		return
	}
	idx := (r.start + r.size) % len(r.entries)
	r.entries[idx] = e
	if r.size < len(r.entries) {
		r.size++
	} else {
		r.start = (r.start + 1) % len(r.entries)
	}
}

// snapshot returns the retained entries, newest first.
func (r *activityRing) snapshot() []domain.ActivityEntry {
	out := make([]domain.ActivityEntry, 0, r.size)
	for i := r.size - 1; i >= 0; i-- {
		out = append(out, r.entries[(r.start+i)%len(r.entries)])
	}
	return out
}

func (r *activityRing) len() int {
	return r.size
}
