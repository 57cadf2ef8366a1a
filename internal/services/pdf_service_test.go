package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"facture-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "court", truncateLabel("court", 50))

	long := strings.Repeat("a", 60)
	got := truncateLabel(long, 50)
	assert.Equal(t, 50, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncateLabelKeepsRunesWhole(t *testing.T) {
	// 47 two-byte runes: a byte cut at 47 would land mid-rune
	long := strings.Repeat("é", 60)
	got := truncateLabel(long, 50)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 47)+"...", got)
}

func TestGenerateInvoicePDF(t *testing.T) {
	svc := NewPDFService()

	now := time.Now()
	invoice := &models.Invoice{
		InvoiceNumber: "FAC-2025-007",
		ClientName:    "Société Générale du Bâtiment",
		ClientEmail:   "compta@sgb.fr",
		LineItems: []models.LineItem{
			{Description: "Développement", Quantity: 5, UnitPrice: 600},
			{Description: "Hébergement année complète avec une description particulièrement longue", Quantity: 1, UnitPrice: 240},
		},
		Subtotal:  3240,
		Tax:       648,
		Total:     3888,
		Status:    models.StatusPending,
		DueDate:   now.AddDate(0, 0, 30),
		CreatedAt: now,
	}
	profile := &models.CompanyProfile{
		Name:    "Études & Conseils Frémont",
		Address: "12 rue de l'Église, 75011 Paris",
	}

	data, err := svc.GenerateInvoicePDF(invoice, profile)
	require.NoError(t, err)

	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerateInvoicePDFWithDefaults(t *testing.T) {
	svc := NewPDFService()

	invoice := &models.Invoice{
		InvoiceNumber: "FAC-1741944413000",
		ClientName:    "Acme",
		ClientEmail:   "a@b.fr",
		LineItems:     []models.LineItem{{Description: "Conseil", Quantity: 1, UnitPrice: 100}},
		Subtotal:      100,
		Tax:           20,
		Total:         120,
		Status:        models.StatusDraft,
		DueDate:       time.Now(),
		CreatedAt:     time.Now(),
	}
	profile := &models.CompanyProfile{
		Name:    models.DefaultProfileName,
		Address: models.DefaultProfileAddress,
	}

	data, err := svc.GenerateInvoicePDF(invoice, profile)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
