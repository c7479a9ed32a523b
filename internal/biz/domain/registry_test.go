package domain

import (
	"fmt"
	"testing"
)

func TestRegistry_AddRemoveContains(t *testing.T) {
	r := NewSubscriberRegistry()

	if r.TryAdd("42", "Ann") != Admitted {
		t.Fatal("Expected first add to be admitted")
	}
	if !r.Contains("42") {
		t.Error("Expected registry to contain 42")
	}
	if r.TryAdd("42", "Ann") != AlreadyPresent {
		t.Error("Expected duplicate add to be a no-op success")
	}
	if r.Len() != 1 {
		t.Errorf("Expected size 1, got %d", r.Len())
	}

	if !r.Remove("42") {
		t.Error("Expected removal of present subscriber to succeed")
	}
	if r.Remove("42") {
		t.Error("Expected removal of absent subscriber to report not found")
	}
	if r.Contains("42") {
		t.Error("Expected 42 to be gone")
	}
}

func TestRegistry_CapacityInvariant(t *testing.T) {
	r := NewSubscriberRegistry()

	for i := 0; i < MaxSubscribers; i++ {
		id := fmt.Sprintf("id-%d", i)
		if r.TryAdd(id, "user") != Admitted {
			t.Fatalf("Expected admission for subscriber %d", i)
		}
		if r.Len() > MaxSubscribers {
			t.Fatalf("Size invariant violated: %d", r.Len())
		}
	}

	if r.TryAdd("one-too-many", "user") != CapacityReached {
		t.Error("Expected the 11th distinct subscriber to be rejected")
	}
	if r.Len() != MaxSubscribers {
		t.Errorf("Expected size %d, got %d", MaxSubscribers, r.Len())
	}

	// A removal frees exactly one slot
	r.Remove("id-3")
	if r.TryAdd("one-too-many", "user") != Admitted {
		t.Error("Expected admission after a slot was freed")
	}
}

func TestRegistry_SnapshotOrder(t *testing.T) {
	r := NewSubscriberRegistry()
	r.TryAdd("1", "Alice")
	r.TryAdd("2", "Bob")
	r.TryAdd("3", "Carol")
	r.Remove("2")

	subs := r.Snapshot()
	if len(subs) != 2 {
		t.Fatalf("Expected 2 subscribers, got %d", len(subs))
	}
	if subs[0].ID != "1" || subs[1].ID != "3" {
		t.Errorf("Expected insertion order [1 3], got [%s %s]", subs[0].ID, subs[1].ID)
	}
}

func TestRegistry_IDByName(t *testing.T) {
	r := NewSubscriberRegistry()
	r.TryAdd("7", "Dave")

	id, ok := r.IDByName("Dave")
	if !ok || id != "7" {
		t.Errorf("Expected to find Dave as 7, got %q (%v)", id, ok)
	}
	if _, ok := r.IDByName("Nobody"); ok {
		t.Error("Expected lookup of unknown name to fail")
	}
}
