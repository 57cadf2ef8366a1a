package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"facture-backend/internal/cache"
	"facture-backend/internal/models"
	"facture-backend/internal/realtime"
	"facture-backend/internal/timeutil"
)

// DefaultPaymentTermsDays is applied when a create request carries no terms
const DefaultPaymentTermsDays = 30

var validPaymentTerms = map[int]bool{15: true, 30: true, 45: true, 60: true}

// InvoiceRepo is the storage surface the invoice service needs
type InvoiceRepo interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Get(ctx context.Context, userID, id int) (*models.Invoice, error)
	ListActive(ctx context.Context, userID int) ([]*models.Invoice, error)
	ListTrashed(ctx context.Context, userID int) ([]*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	UpdateStatus(ctx context.Context, userID, id int, status string, paidAt *time.Time) error
	SoftDelete(ctx context.Context, userID, id int) error
	Restore(ctx context.Context, userID, id int) error
	PermanentlyDelete(ctx context.Context, userID, id int) error
	PurgeTrash(ctx context.Context, userID int) (int, error)
	Stats(ctx context.Context, userID int) (*models.InvoiceStats, error)
}

// Allocator produces invoice numbers; implemented by ProfileService
type Allocator interface {
	AllocateNext(ctx context.Context, userID int) (string, bool, error)
}

type InvoiceService struct {
	Repo       InvoiceRepo
	ClientRepo ClientRepo
	Allocator  Allocator
	notifier   Notifier
}

func NewInvoiceService(repo InvoiceRepo, clientRepo ClientRepo, allocator Allocator) *InvoiceService {
	return &InvoiceService{Repo: repo, ClientRepo: clientRepo, Allocator: allocator}
}

// SetNotifier wires the change-feed hub. Optional.
func (s *InvoiceService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *InvoiceService) notifyActive(userID int) {
	if s.notifier != nil {
		s.notifier.Notify(userID, realtime.EntityInvoices, realtime.ViewActive)
	}
}

func (s *InvoiceService) notifyBoth(userID int) {
	if s.notifier != nil {
		s.notifier.NotifyBoth(userID, realtime.EntityInvoices)
	}
}

func (s *InvoiceService) notifyTrash(userID int) {
	if s.notifier != nil {
		s.notifier.Notify(userID, realtime.EntityInvoices, realtime.ViewTrash)
	}
}

// ComputeTotals derives subtotal, tax and total from the line items.
// Amounts are rounded to cents.
func ComputeTotals(items []models.LineItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.Total()
	}
	subtotal = roundCents(subtotal)
	tax = roundCents(subtotal * models.TaxRate)
	total = roundCents(subtotal + tax)
	return subtotal, tax, total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateLineItems(items []models.LineItem) error {
	if len(items) == 0 {
		return errors.New("at least one line item is required")
	}
	for _, item := range items {
		if item.Description == "" {
			return errors.New("line item description is required")
		}
		if item.Quantity <= 0 {
			return errors.New("line item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return errors.New("line item unit price cannot be negative")
		}
	}
	return nil
}

// CreateInvoice allocates the next invoice number, snapshots the client's
// name and email, computes the totals and stores the invoice as a draft.
// Sequential=false in the response means the allocator degraded to a
// timestamp number.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID int, req *models.CreateInvoiceRequest) (*models.CreateInvoiceResponse, error) {
	if err := validateLineItems(req.LineItems); err != nil {
		return nil, err
	}

	client, err := s.ClientRepo.Get(ctx, userID, req.ClientID)
	if err != nil {
		return nil, errors.New("client not found")
	}
	if client.Deleted {
		return nil, errors.New("client is in the trash")
	}

	terms := req.PaymentTermsDays
	if terms == 0 {
		terms = DefaultPaymentTermsDays
	}
	if !validPaymentTerms[terms] {
		return nil, errors.New("payment terms must be 15, 30, 45 or 60 days")
	}

	number, sequential, err := s.Allocator.AllocateNext(ctx, userID)
	if err != nil {
		return nil, err
	}

	subtotal, tax, total := ComputeTotals(req.LineItems)
	now := timeutil.Now()

	invoice := &models.Invoice{
		UserID:        userID,
		InvoiceNumber: number,
		ClientName:    client.Name,
		ClientEmail:   client.Email,
		LineItems:     req.LineItems,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Status:        models.StatusDraft,
		DueDate:       now.AddDate(0, 0, terms),
	}

	if err := s.Repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	cache.InvalidateStats(ctx, userID)
	s.notifyActive(userID)

	return &models.CreateInvoiceResponse{Invoice: invoice, Sequential: sequential}, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id int) (*models.Invoice, error) {
	return s.Repo.Get(ctx, userID, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context, userID int) ([]*models.Invoice, error) {
	return s.Repo.ListActive(ctx, userID)
}

func (s *InvoiceService) ListTrashedInvoices(ctx context.Context, userID int) ([]*models.Invoice, error) {
	return s.Repo.ListTrashed(ctx, userID)
}

// UpdateInvoice edits an invoice's client, items and terms. The invoice
// number is kept: a consumed number is never reallocated.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, userID, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	if err := validateLineItems(req.LineItems); err != nil {
		return nil, err
	}

	existing, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	client, err := s.ClientRepo.Get(ctx, userID, req.ClientID)
	if err != nil {
		return nil, errors.New("client not found")
	}

	terms := req.PaymentTermsDays
	if terms == 0 {
		terms = DefaultPaymentTermsDays
	}
	if !validPaymentTerms[terms] {
		return nil, errors.New("payment terms must be 15, 30, 45 or 60 days")
	}

	subtotal, tax, total := ComputeTotals(req.LineItems)

	existing.ClientName = client.Name
	existing.ClientEmail = client.Email
	existing.LineItems = req.LineItems
	existing.Subtotal = subtotal
	existing.Tax = tax
	existing.Total = total
	existing.DueDate = existing.CreatedAt.AddDate(0, 0, terms)

	if err := s.Repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	cache.InvalidateStats(ctx, userID)
	s.notifyActive(userID)

	return s.Repo.Get(ctx, userID, id)
}

// UpdateStatus applies a manual status override from the status picker.
// Moving to paid stamps the paid timestamp; leaving paid clears it.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id int, status string) (*models.Invoice, error) {
	if !models.ValidStatus(status) {
		return nil, errors.New("invalid status")
	}

	var paidAt *time.Time
	if status == models.StatusPaid {
		now := timeutil.Now()
		paidAt = &now
	}

	if err := s.Repo.UpdateStatus(ctx, userID, id, status, paidAt); err != nil {
		return nil, err
	}

	cache.InvalidateStats(ctx, userID)
	s.notifyActive(userID)

	return s.Repo.Get(ctx, userID, id)
}

// MarkPaid is the explicit "mark as paid" action
func (s *InvoiceService) MarkPaid(ctx context.Context, userID, id int) (*models.Invoice, error) {
	return s.UpdateStatus(ctx, userID, id, models.StatusPaid)
}

// DeleteInvoice moves the invoice to the trash
func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, id int) error {
	if err := s.Repo.SoftDelete(ctx, userID, id); err != nil {
		return err
	}
	cache.InvalidateStats(ctx, userID)
	s.notifyBoth(userID)
	return nil
}

// RestoreInvoice moves a trashed invoice back to the active listing
func (s *InvoiceService) RestoreInvoice(ctx context.Context, userID, id int) error {
	if err := s.Repo.Restore(ctx, userID, id); err != nil {
		return err
	}
	cache.InvalidateStats(ctx, userID)
	s.notifyBoth(userID)
	return nil
}

// PermanentlyDeleteInvoice removes one invoice for good
func (s *InvoiceService) PermanentlyDeleteInvoice(ctx context.Context, userID, id int) error {
	if err := s.Repo.PermanentlyDelete(ctx, userID, id); err != nil {
		return err
	}
	s.notifyBoth(userID)
	return nil
}

// PurgeTrash empties the invoice trash
func (s *InvoiceService) PurgeTrash(ctx context.Context, userID int) (int, error) {
	n, err := s.Repo.PurgeTrash(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notifyTrash(userID)
	}
	return n, nil
}

// GetStats returns the dashboard counters, cached for a few minutes
func (s *InvoiceService) GetStats(ctx context.Context, userID int) (*models.InvoiceStats, error) {
	if data, ok := cache.GetCachedStats(ctx, userID); ok {
		var stats models.InvoiceStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.Repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.CacheStats(ctx, userID, data)
	}

	return stats, nil
}
