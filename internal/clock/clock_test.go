package clock

import (
	"testing"
	"time"
)

func TestSystemClockIsUTC(t *testing.T) {
	if loc := (SystemClock{}).Now().Location(); loc != time.UTC {
		t.Errorf("location = %v, want UTC", loc)
	}
}

func TestFake(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	if !f.Now().Equal(start) {
		t.Fatalf("Now = %v, want %v", f.Now(), start)
	}

	f.Advance(90 * time.Second)
	if got := f.Now().Sub(start); got != 90*time.Second {
		t.Errorf("after Advance elapsed = %v, want 90s", got)
	}

	f.Set(start)
	if !f.Now().Equal(start) {
		t.Errorf("after Set Now = %v, want %v", f.Now(), start)
	}
}
