package services

import (
	"fmt"
	"time"
)

// FormatInvoiceNumber renders a sequential invoice number. The counter is
// zero-padded to a minimum of 3 digits and never truncated: counter 6 gives
// FAC-2025-006, counter 1000 gives FAC-2025-1000.
func FormatInvoiceNumber(year, counter int) string {
	return fmt.Sprintf("FAC-%d-%03d", year, counter)
}

// FallbackInvoiceNumber renders a non-colliding, non-sequential identifier
// used when the allocator transaction fails. Invoice creation is never
// blocked on the allocator.
func FallbackInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("FAC-%d", now.UnixMilli())
}
