package domain

import "testing"

func TestChangeSet_EncodeEmpty(t *testing.T) {
	var cs ChangeSet
	if !cs.Empty() {
		t.Error("Expected fresh changeset to be empty")
	}
	if got := cs.Encode(); got != NoUpdates {
		t.Errorf("Expected %q, got %q", NoUpdates, got)
	}
}

func TestChangeSet_EncodeInterval(t *testing.T) {
	interval := 30
	cs := ChangeSet{Interval: &interval}
	if got := cs.Encode(); got != "i30" {
		t.Errorf("Expected \"i30\", got %q", got)
	}
}

func TestChangeSet_EncodeFeedback(t *testing.T) {
	on := true
	cs := ChangeSet{Feedback: &on}
	if got := cs.Encode(); got != "f1" {
		t.Errorf("Expected \"f1\", got %q", got)
	}

	off := false
	cs = ChangeSet{Feedback: &off}
	if got := cs.Encode(); got != "f0" {
		t.Errorf("Expected \"f0\", got %q", got)
	}
}

func TestChangeSet_EncodeFullRound(t *testing.T) {
	interval := 15
	on := true
	cs := ChangeSet{
		Interval: &interval,
		Feedback: &on,
		Added: []Subscriber{
			{ID: "111", Name: "Ann"},
			{ID: "222", Name: "Bob"},
		},
		Removed: []string{"333", "444"},
	}

	want := "i15;f1;Ann:111,Bob:222;333;444"
	if got := cs.Encode(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestChangeSet_EncodeRemovalOnly(t *testing.T) {
	cs := ChangeSet{Removed: []string{"333"}}
	if got := cs.Encode(); got != "333" {
		t.Errorf("Expected \"333\", got %q", got)
	}
}
