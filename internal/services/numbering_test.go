package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "FAC-2025-001", FormatInvoiceNumber(2025, 1))
	assert.Equal(t, "FAC-2025-006", FormatInvoiceNumber(2025, 6))
	assert.Equal(t, "FAC-2025-042", FormatInvoiceNumber(2025, 42))
	assert.Equal(t, "FAC-2026-100", FormatInvoiceNumber(2026, 100))
}

func TestFormatInvoiceNumberNoTruncation(t *testing.T) {
	// Counters past 999 keep all their digits
	assert.Equal(t, "FAC-2025-1000", FormatInvoiceNumber(2025, 1000))
	assert.Equal(t, "FAC-2025-12345", FormatInvoiceNumber(2025, 12345))
}

func TestFallbackInvoiceNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := FallbackInvoiceNumber(now)

	assert.True(t, strings.HasPrefix(got, "FAC-"))
	assert.NotContains(t, got[4:], "-", "fallback numbers carry no year segment")
	assert.Equal(t, "FAC-1741944413000", got)
}
