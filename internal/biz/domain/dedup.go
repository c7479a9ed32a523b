package domain

import "time"

// SeenCacheSize bounds the recently-applied message ID cache
const SeenCacheSize = 128

// DedupFilter decides whether an inbound message has already been
// applied. Two mechanisms work together: a monotonic watermark timestamp
// (the boundary between applied and new config commands) and a bounded
// cache of recently applied message IDs for feeds that can redeliver out
// of timestamp order. The cache evicts its oldest entry at capacity, so
// memory stays bounded no matter how long the process runs.
type DedupFilter struct {
	lastAppliedAt time.Time
	seen          map[string]struct{}
	order         []string
}

// NewDedupFilter creates a filter with the watermark set to start.
// Messages sent before the engine started are never applied.
func NewDedupFilter(start time.Time) *DedupFilter {
	return &DedupFilter{
		lastAppliedAt: start,
		seen:          make(map[string]struct{}),
	}
}

// AlreadyApplied checks the recently-seen ID cache. Messages without an
// ID fall through to the watermark check.
func (f *DedupFilter) AlreadyApplied(messageID string) bool {
	if messageID == "" {
		return false
	}
	_, ok := f.seen[messageID]
	return ok
}

// BeforeWatermark reports whether a send time is at or before the
// watermark, i.e. treated as already seen.
func (f *DedupFilter) BeforeWatermark(sentAt time.Time) bool {
	return !sentAt.After(f.lastAppliedAt)
}

// Watermark returns the current boundary timestamp
func (f *DedupFilter) Watermark() time.Time {
	return f.lastAppliedAt
}

// MarkApplied records message IDs in the seen cache, evicting the oldest
// entries beyond capacity. Empty IDs are ignored.
func (f *DedupFilter) MarkApplied(messageIDs []string) {
	for _, id := range messageIDs {
		if id == "" {
			continue
		}
		if _, ok := f.seen[id]; ok {
			continue
		}
		f.seen[id] = struct{}{}
		f.order = append(f.order, id)
		for len(f.order) > SeenCacheSize {
			delete(f.seen, f.order[0])
			f.order = f.order[1:]
		}
	}
}

// Advance moves the watermark forward. It never moves backwards.
func (f *DedupFilter) Advance(t time.Time) {
	if t.After(f.lastAppliedAt) {
		f.lastAppliedAt = t
	}
}
