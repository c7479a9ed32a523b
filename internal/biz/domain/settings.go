package domain

import "strconv"

// Recognized setting names. The set is closed: anything else is invalid.
const (
	SettingInterval = "interval"
	SettingFeedback = "feedback"
)

// Interval bounds in minutes
const (
	MinInterval = 1
	MaxInterval = 120
)

// SetOutcome is the result class of a config stage attempt
type SetOutcome int

const (
	// SetUpdated means the value was validated and staged
	SetUpdated SetOutcome = iota
	// SetUnchanged means the validated value equals the effective value
	SetUnchanged
	// SetInvalid means the value failed validation and nothing was staged
	SetInvalid
)

// SetResult carries the outcome of a config stage attempt
type SetResult struct {
	Outcome SetOutcome
	Old     string
	New     string
	Reason  string
}

// ConfigStore holds the gateway's runtime settings. Writes are two-phase:
// Stage validates during a reconciliation round, Commit merges the staged
// values into the live ones at round end. A batch that never commits
// leaves the live values untouched.
type ConfigStore struct {
	interval int
	feedback bool

	stagedInterval *int
	stagedFeedback *bool
}

// NewConfigStore creates a store with the given defaults
func NewConfigStore(interval int, feedback bool) *ConfigStore {
	return &ConfigStore{interval: interval, feedback: feedback}
}

// Stage validates a raw value and stages it for the next Commit.
// The comparison for SetUnchanged is against the effective value:
// an earlier staged value in the same round, or else the live one.
func (s *ConfigStore) Stage(name, raw string) SetResult {
	switch name {
	case SettingInterval:
		v, err := strconv.Atoi(raw)
		if err != nil || v < MinInterval || v > MaxInterval {
			return SetResult{Outcome: SetInvalid, Reason: "interval out of range"}
		}
		old := s.effectiveInterval()
		if v == old {
			return SetResult{Outcome: SetUnchanged}
		}
		s.stagedInterval = &v
		return SetResult{
			Outcome: SetUpdated,
			Old:     strconv.Itoa(old),
			New:     strconv.Itoa(v),
		}

	case SettingFeedback:
		if raw != "0" && raw != "1" {
			return SetResult{Outcome: SetInvalid, Reason: "feedback must be 0 or 1"}
		}
		v := raw == "1"
		if v == s.effectiveFeedback() {
			return SetResult{Outcome: SetUnchanged}
		}
		s.stagedFeedback = &v
		return SetResult{
			Outcome: SetUpdated,
			Old:     boolValue(!v),
			New:     boolValue(v),
		}

	default:
		return SetResult{Outcome: SetInvalid, Reason: "unknown setting"}
	}
}

// HasStaged reports whether any value is waiting for Commit
func (s *ConfigStore) HasStaged() bool {
	return s.stagedInterval != nil || s.stagedFeedback != nil
}

// Commit merges staged values into the live ones and returns the deltas
// (nil for settings that did not change this round).
func (s *ConfigStore) Commit() (interval *int, feedback *bool) {
	if s.stagedInterval != nil {
		s.interval = *s.stagedInterval
		interval = s.stagedInterval
	}
	if s.stagedFeedback != nil {
		s.feedback = *s.stagedFeedback
		feedback = s.stagedFeedback
	}
	s.stagedInterval = nil
	s.stagedFeedback = nil
	return interval, feedback
}

// DiscardStaged drops staged values without committing them
func (s *ConfigStore) DiscardStaged() {
	s.stagedInterval = nil
	s.stagedFeedback = nil
}

// Interval returns the live notification interval in minutes
func (s *ConfigStore) Interval() int {
	return s.interval
}

// Feedback returns the live LED feedback flag
func (s *ConfigStore) Feedback() bool {
	return s.feedback
}

func (s *ConfigStore) effectiveInterval() int {
	if s.stagedInterval != nil {
		return *s.stagedInterval
	}
	return s.interval
}

func (s *ConfigStore) effectiveFeedback() bool {
	if s.stagedFeedback != nil {
		return *s.stagedFeedback
	}
	return s.feedback
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
