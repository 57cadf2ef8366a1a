package services

import (
	"bytes"
	"fmt"
	"time"

	"facture-backend/internal/models"
	"facture-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService renders an invoice plus the company profile into a printable
// document. Pure formatting: no storage access.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

func formatPDFDate(t time.Time) string {
	return timeutil.ToParis(t).Format(timeutil.DateLayout)
}

// truncateLabel shortens a description to max characters. Counts runes, not
// bytes: French descriptions carry multibyte accents and slicing bytes could
// split one in half.
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// GenerateInvoicePDF produces the A4 invoice document
func (s *PDFService) GenerateInvoicePDF(inv *models.Invoice, profile *models.CompanyProfile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// Header: company identity left, document title right
	pdf.SetFont("Arial", "B", 14)
	pdf.SetXY(15, 18)
	pdf.CellFormat(120, 8, tr(profile.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(15)
	pdf.CellFormat(120, 6, tr(profile.Address), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 22)
	pdf.SetXY(15, 18)
	pdf.CellFormat(pageWidth-30, 10, "FACTURE", "", 1, "R", false, 0, "")

	// Info blocks: billed-to, billed-by, invoice details
	infoY := 50.0
	pdf.SetLineWidth(0.5)
	pdf.Line(15, infoY-5, pageWidth-15, infoY-5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(15, infoY)
	pdf.CellFormat(60, 5, tr("FACTURÉ À"), "", 0, "L", false, 0, "")
	pdf.SetXY(80, infoY)
	pdf.CellFormat(60, 5, tr("FACTURÉ PAR"), "", 0, "L", false, 0, "")
	pdf.SetXY(150, infoY)
	pdf.CellFormat(25, 5, "Facture #:", "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetXY(15, infoY+5)
	pdf.CellFormat(60, 5, tr(inv.ClientName), "", 0, "L", false, 0, "")
	pdf.SetXY(15, infoY+10)
	pdf.CellFormat(60, 5, tr(inv.ClientEmail), "", 0, "L", false, 0, "")

	pdf.SetXY(80, infoY+5)
	pdf.CellFormat(60, 5, tr(profile.Name), "", 0, "L", false, 0, "")
	pdf.SetXY(80, infoY+10)
	pdf.CellFormat(60, 5, tr(profile.Address), "", 0, "L", false, 0, "")

	pdf.SetXY(170, infoY)
	pdf.CellFormat(25, 5, inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(150, infoY+5)
	pdf.CellFormat(25, 5, "Date :", "", 0, "L", false, 0, "")
	pdf.SetXY(150, infoY+10)
	pdf.CellFormat(25, 5, tr("Échéance :"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetXY(170, infoY+5)
	pdf.CellFormat(25, 5, formatPDFDate(inv.CreatedAt), "", 0, "L", false, 0, "")
	pdf.SetXY(170, infoY+10)
	pdf.CellFormat(25, 5, formatPDFDate(inv.DueDate), "", 0, "L", false, 0, "")

	pdf.Line(15, infoY+20, pageWidth-15, infoY+20)

	// Line items table
	tableY := infoY + 30
	pdf.SetXY(15, tableY)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, tr("Qté"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Prix unitaire", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Montant", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.LineItems {
		desc := truncateLabel(item.Description, 50)
		pdf.SetX(15)
		pdf.CellFormat(90, 7, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%g", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f EUR", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f EUR", item.Total()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Totals block, right-aligned
	totalsX := pageWidth - 15 - 80
	pdf.SetX(totalsX)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(45, 7, "Sous-total :", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f EUR", inv.Subtotal), "", 1, "R", false, 0, "")
	pdf.SetX(totalsX)
	pdf.CellFormat(45, 7, fmt.Sprintf("TVA (%.0f%%) :", models.TaxRate*100), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f EUR", inv.Tax), "", 1, "R", false, 0, "")
	pdf.SetX(totalsX)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(45, 9, "Total :", "T", 0, "R", true, 0, "")
	pdf.CellFormat(35, 9, fmt.Sprintf("%.2f EUR", inv.Total), "T", 1, "R", true, 0, "")

	// Footer
	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(pageWidth-30, 5, tr("Merci de votre confiance."), "", 1, "C", false, 0, "")
	pdf.CellFormat(pageWidth-30, 5, tr(fmt.Sprintf("%s - %s", profile.Name, profile.Address)), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
