package timeparse

import (
	"testing"
	"time"
)

func TestParseISOWithZ(t *testing.T) {
	got := Parse("2025-01-01T00:00:01.000Z")
	want := time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseSpaceSeparated(t *testing.T) {
	got := Parse("2025-01-01 00:00:00.500000")
	want := time.Date(2025, 1, 1, 0, 0, 0, 500000000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseISOWithoutZ(t *testing.T) {
	got := Parse("2025-06-30T12:30:45.123456")
	if got.IsZero() {
		t.Error("expected parseable timestamp, got zero time")
	}
	if got.Nanosecond() != 123456000 {
		t.Errorf("expected 123456000 ns, got %d", got.Nanosecond())
	}
}

func TestParseEmptySortsFirst(t *testing.T) {
	got := Parse("")
	if !got.IsZero() {
		t.Errorf("expected zero time for empty input, got %v", got)
	}
	if !got.Before(Parse("2025-01-01T00:00:00.500000")) {
		t.Error("zero time must sort before any parseable timestamp")
	}
}

func TestParseGarbageNeverFails(t *testing.T) {
	for _, raw := range []string{"not a time", "17/Feb/2026:12:00:00", "1760571668"} {
		if got := Parse(raw); !got.IsZero() {
			t.Errorf("expected zero time for %q, got %v", raw, got)
		}
	}
}

func TestParseOrdering(t *testing.T) {
	a := Parse("")
	b := Parse("2025-01-01 00:00:00.500000")
	c := Parse("2025-01-01T00:00:01.000Z")
	if !a.Before(b) || !b.Before(c) {
		t.Errorf("expected a < b < c, got %v %v %v", a, b, c)
	}
}
