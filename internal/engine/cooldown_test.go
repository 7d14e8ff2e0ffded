package engine

import (
	"testing"
	"time"
)

func TestCooldownLifecycle(t *testing.T) {
	now := time.Date(2024, 10, 9, 12, 0, 0, 0, time.UTC)
	cd := NewCooldownTracker(10 * time.Minute)
	cd.SetClock(func() time.Time { return now })

	if active, _ := cd.Active("EURUSD"); active {
		t.Fatalf("fresh tracker must not be active")
	}

	cd.Mark("EURUSD")
	active, remaining := cd.Active("EURUSD")
	if !active {
		t.Fatalf("expected active cooldown after mark")
	}
	if remaining != 10*time.Minute {
		t.Fatalf("expected full interval remaining, got %v", remaining)
	}

	now = now.Add(4 * time.Minute)
	if _, remaining := cd.Active("EURUSD"); remaining != 6*time.Minute {
		t.Fatalf("expected 6m remaining, got %v", remaining)
	}

	// Marks are per pair.
	if active, _ := cd.Active("GBPUSD"); active {
		t.Fatalf("other pairs must be unaffected")
	}

	now = now.Add(6 * time.Minute)
	if active, _ := cd.Active("EURUSD"); active {
		t.Fatalf("cooldown must expire after the interval")
	}
}

func TestCooldownReset(t *testing.T) {
	now := time.Date(2024, 10, 9, 12, 0, 0, 0, time.UTC)
	cd := NewCooldownTracker(10 * time.Minute)
	cd.SetClock(func() time.Time { return now })

	cd.Mark("EURUSD")
	cd.Reset("EURUSD")
	if active, _ := cd.Active("EURUSD"); active {
		t.Fatalf("reset must clear the cooldown")
	}
}
