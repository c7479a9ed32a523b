package domain

import (
	"strconv"
	"strings"
)

// NoUpdates is the sentinel returned when a round changed nothing
const NoUpdates = "No Updates"

// ChangeSet records the deltas produced by one reconciliation round.
// It lives for a single round and is discarded after encoding.
type ChangeSet struct {
	Interval *int
	Feedback *bool
	Added    []Subscriber
	Removed  []string
}

// Empty reports whether the round changed nothing
func (c *ChangeSet) Empty() bool {
	return c.Interval == nil && c.Feedback == nil &&
		len(c.Added) == 0 && len(c.Removed) == 0
}

// Encode produces the compact wire format consumed by the firmware
// client. Segments are semicolon-separated in fixed order: interval
// ("i30"), feedback ("f0"/"f1"), one comma-joined "name:id" segment for
// added subscribers, then one bare id segment per removal in feed order.
// The format is positional; the firmware parses it byte-for-byte.
func (c *ChangeSet) Encode() string {
	if c.Empty() {
		return NoUpdates
	}

	var segments []string
	if c.Interval != nil {
		segments = append(segments, "i"+strconv.Itoa(*c.Interval))
	}
	if c.Feedback != nil {
		segments = append(segments, "f"+boolValue(*c.Feedback))
	}
	if len(c.Added) > 0 {
		pairs := make([]string, 0, len(c.Added))
		for _, sub := range c.Added {
			pairs = append(pairs, sub.Name+":"+sub.ID)
		}
		segments = append(segments, strings.Join(pairs, ","))
	}
	segments = append(segments, c.Removed...)

	return strings.Join(segments, ";")
}
