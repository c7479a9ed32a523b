package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestDedupFilter_Watermark(t *testing.T) {
	start := time.Unix(1000, 0)
	f := NewDedupFilter(start)

	if !f.BeforeWatermark(start) {
		t.Error("Expected the start instant itself to count as already seen")
	}
	if !f.BeforeWatermark(start.Add(-time.Second)) {
		t.Error("Expected earlier times to count as already seen")
	}
	if f.BeforeWatermark(start.Add(time.Second)) {
		t.Error("Expected later times to count as new")
	}
}

func TestDedupFilter_AdvanceIsMonotonic(t *testing.T) {
	start := time.Unix(1000, 0)
	f := NewDedupFilter(start)

	f.Advance(start.Add(time.Minute))
	if got := f.Watermark(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Expected watermark to advance, got %v", got)
	}

	// Moving backwards is ignored
	f.Advance(start)
	if got := f.Watermark(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Expected watermark to never decrease, got %v", got)
	}
}

func TestDedupFilter_SeenCache(t *testing.T) {
	f := NewDedupFilter(time.Now())

	if f.AlreadyApplied("m1") {
		t.Error("Expected unknown ID to be new")
	}
	f.MarkApplied([]string{"m1", "", "m2"})
	if !f.AlreadyApplied("m1") || !f.AlreadyApplied("m2") {
		t.Error("Expected marked IDs to be seen")
	}
	if f.AlreadyApplied("") {
		t.Error("Expected empty ID to never match")
	}
}

func TestDedupFilter_SeenCacheEviction(t *testing.T) {
	f := NewDedupFilter(time.Now())

	ids := make([]string, SeenCacheSize+10)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%d", i)
	}
	f.MarkApplied(ids)

	// The oldest entries were evicted, the newest are still present
	for i := 0; i < 10; i++ {
		if f.AlreadyApplied(ids[i]) {
			t.Errorf("Expected oldest ID %s to be evicted", ids[i])
		}
	}
	for i := 10; i < len(ids); i++ {
		if !f.AlreadyApplied(ids[i]) {
			t.Errorf("Expected recent ID %s to be retained", ids[i])
		}
	}
}
