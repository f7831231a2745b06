package metrics

import (
	"testing"
	"time"
)

func TestCollectorClassifiesStatuses(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 10*time.Millisecond)
	c.Record(429, 0)
	c.Record(502, 30*time.Millisecond)

	snap := c.Snapshot()
	if got := snap["requestsServed"].(uint64); got != 4 {
		t.Fatalf("requestsServed = %d, want 4", got)
	}
	if got := snap["clientErrors"].(uint64); got != 2 {
		t.Fatalf("clientErrors = %d, want 2 (404 and the throttled 429)", got)
	}
	if got := snap["serverErrors"].(uint64); got != 1 {
		t.Fatalf("serverErrors = %d, want 1", got)
	}
	if got := snap["throttled"].(uint64); got != 1 {
		t.Fatalf("throttled = %d, want 1", got)
	}
	if got := snap["avgDurationMs"].(float64); got != 12.5 {
		t.Fatalf("avgDurationMs = %v, want 12.5", got)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	snap := New().Snapshot()
	if got := snap["avgDurationMs"].(float64); got != 0 {
		t.Fatalf("empty collector average must be 0, got %v", got)
	}
}
