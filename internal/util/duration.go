// ABOUTME: Duration helpers for progress reporting
// ABOUTME: Shared by the search runner and CLI for consistent time formatting
package util

import (
	"fmt"
	"time"
)

// FormatMinSec renders a duration as "X min Y sek" for status messages.
func FormatMinSec(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d min %d sek", total/60, total%60)
}

// EstimateRemaining projects the remaining runtime from the average
// per-item duration so far. Returns 0 until at least one item finished.
func EstimateRemaining(elapsed time.Duration, processed, total int) time.Duration {
	if processed <= 0 || total <= processed {
		return 0
	}
	perItem := elapsed / time.Duration(processed)
	return perItem * time.Duration(total-processed)
}
