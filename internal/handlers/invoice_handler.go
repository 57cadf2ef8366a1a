package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"facture-backend/internal/models"
	"facture-backend/internal/services"
)

type InvoiceHandler struct {
	Service        *services.InvoiceService
	ProfileService *services.ProfileService
	PDFService     *services.PDFService
}

func NewInvoiceHandler(s *services.InvoiceService, ps *services.ProfileService, pdf *services.PDFService) *InvoiceHandler {
	return &InvoiceHandler{Service: s, ProfileService: ps, PDFService: pdf}
}

// Create allocates the next invoice number and stores the invoice as a
// draft. The response reports whether the number is sequential.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.CreateInvoice(r.Context(), userID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// List returns the user's active invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	invoices, err := h.Service.ListInvoices(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch invoices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoices)
}

// ListTrash returns the user's trashed invoices
func (h *InvoiceHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	invoices, err := h.Service.ListTrashedInvoices(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch trash", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), userID, id)
	if err != nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// Update edits the invoice's client, line items and payment terms. The
// invoice number never changes.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.UpdateInvoice(r.Context(), userID, id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// UpdateStatus applies a manual status change from the status picker
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.UpdateStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// MarkPaid is the one-click payment confirmation
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoice, err := h.Service.MarkPaid(r.Context(), userID, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// DownloadPDF renders the invoice as a PDF attachment
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), userID, id)
	if err != nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}

	profile, err := h.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	data, err := h.PDFService.GenerateInvoicePDF(invoice, profile)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=facture-%s.pdf", invoice.InvoiceNumber))
	w.Write(data)
}

// Stats returns the dashboard counters
func (h *InvoiceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.GetStats(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// Delete moves an invoice to the trash
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteInvoice(r.Context(), userID, id); err != nil {
		http.Error(w, "Failed to delete invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Invoice moved to trash"})
}

// Restore moves a trashed invoice back to the active listing
func (h *InvoiceHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.RestoreInvoice(r.Context(), userID, id); err != nil {
		http.Error(w, "Failed to restore invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Invoice restored"})
}

// PermanentDelete removes a single trashed invoice for good
func (h *InvoiceHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.PermanentlyDeleteInvoice(r.Context(), userID, id); err != nil {
		http.Error(w, "Failed to delete invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Invoice permanently deleted"})
}

// PurgeTrash empties the invoice trash
func (h *InvoiceHandler) PurgeTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	n, err := h.Service.PurgeTrash(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to empty trash", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"deleted": n})
}
