// ABOUTME: Tests for duration formatting and remaining-time estimation
// ABOUTME: Verifies minute/second splits and edge cases around zero progress
package util

import (
	"testing"
	"time"
)

func TestFormatMinSec(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 min 0 sek"},
		{59 * time.Second, "0 min 59 sek"},
		{60 * time.Second, "1 min 0 sek"},
		{3*time.Minute + 42*time.Second, "3 min 42 sek"},
		{-5 * time.Second, "0 min 0 sek"},
	}

	for _, tt := range tests {
		if got := FormatMinSec(tt.d); got != tt.want {
			t.Errorf("FormatMinSec(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEstimateRemaining(t *testing.T) {
	// 10 of 40 items in 20s -> 2s per item -> 60s remaining
	got := EstimateRemaining(20*time.Second, 10, 40)
	if got != 60*time.Second {
		t.Errorf("EstimateRemaining() = %v, want 60s", got)
	}
}

func TestEstimateRemainingEdgeCases(t *testing.T) {
	if got := EstimateRemaining(time.Minute, 0, 100); got != 0 {
		t.Errorf("EstimateRemaining() with no progress = %v, want 0", got)
	}
	if got := EstimateRemaining(time.Minute, 100, 100); got != 0 {
		t.Errorf("EstimateRemaining() when done = %v, want 0", got)
	}
}
