package core

import (
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestParseID tests ID parsing
func TestParseID(t *testing.T) {
	tests := []struct {
		input    string
		expected ID
		hasError bool
	}{
		{"run-123", ID("run-123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestTimestampScan tests database scanning into a Timestamp
func TestTimestampScan(t *testing.T) {
	now := time.Now().UTC()

	var ts Timestamp
	if err := ts.Scan(now); err != nil {
		t.Fatalf("Unexpected scan error: %v", err)
	}
	if !ts.Time().Equal(now) {
		t.Errorf("Expected %v, got %v", now, ts.Time())
	}

	if err := ts.Scan(42); err == nil {
		t.Error("Expected error scanning an int, got none")
	}
}
