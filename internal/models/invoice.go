package models

import "time"

// Invoice statuses. Overdue is only ever derived from pending by the sweep;
// paid is terminal and stamps PaidAt.
const (
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// TaxRate is the fixed VAT rate applied to every invoice (20%)
const TaxRate = 0.20

// ValidStatus reports whether s is one of the four invoice statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// LineItem is one billed row on an invoice
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Total returns quantity x unit price for the line
func (li LineItem) Total() float64 {
	return li.Quantity * li.UnitPrice
}

// Invoice carries a snapshot of the client's name/email at creation time,
// so later client edits do not rewrite issued invoices.
type Invoice struct {
	ID            int        `json:"id"`
	UserID        int        `json:"user_id"`
	InvoiceNumber string     `json:"invoice_number"`
	ClientName    string     `json:"client_name"`
	ClientEmail   string     `json:"client_email"`
	LineItems     []LineItem `json:"line_items"`
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaidAt        *time.Time `json:"paid_at"`
	Deleted       bool       `json:"deleted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateInvoiceRequest represents the request body for creating an invoice.
// Totals are computed server-side; any client-supplied amounts are ignored.
type CreateInvoiceRequest struct {
	ClientID         int        `json:"client_id"`
	LineItems        []LineItem `json:"line_items"`
	PaymentTermsDays int        `json:"payment_terms_days"`
}

// UpdateInvoiceRequest represents the request body for editing a draft
type UpdateInvoiceRequest struct {
	ClientID         int        `json:"client_id"`
	LineItems        []LineItem `json:"line_items"`
	PaymentTermsDays int        `json:"payment_terms_days"`
}

// UpdateStatusRequest represents a manual status override
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateInvoiceResponse wraps the created invoice with the allocator
// outcome: Sequential=false means the number is a timestamp fallback.
type CreateInvoiceResponse struct {
	Invoice    *Invoice `json:"invoice"`
	Sequential bool     `json:"sequential"`
}

// InvoiceStats are the dashboard counters per status
type InvoiceStats struct {
	DraftCount   int     `json:"draft_count"`
	PendingCount int     `json:"pending_count"`
	PaidCount    int     `json:"paid_count"`
	OverdueCount int     `json:"overdue_count"`
	TotalBilled  float64 `json:"total_billed"`
	TotalPaid    float64 `json:"total_paid"`
}
