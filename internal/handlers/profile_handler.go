package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"facture-backend/internal/middleware"
	"facture-backend/internal/models"
	"facture-backend/internal/services"
	"facture-backend/internal/storage"
)

// maxLogoSize caps logo uploads at 2 MB
const maxLogoSize = 2 << 20

type ProfileHandler struct {
	Service  *services.ProfileService
	Uploader *storage.Uploader
}

func NewProfileHandler(s *services.ProfileService, uploader *storage.Uploader) *ProfileHandler {
	return &ProfileHandler{Service: s, Uploader: uploader}
}

// Get returns the company profile, creating it with placeholder values on
// first access
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// Update edits the company name and address
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// UploadLogo accepts a multipart image, stores it and records its URL on
// the profile
func (h *ProfileHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.Uploader == nil {
		http.Error(w, "Logo storage is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		http.Error(w, "Logo must be an image under 2 MB", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		http.Error(w, "Missing logo file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxLogoSize {
		http.Error(w, "Logo must be an image under 2 MB", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "Logo must be an image", http.StatusBadRequest)
		return
	}

	logoURL, err := h.Uploader.UploadLogo(r.Context(), userID, file, header.Size, contentType)
	if err != nil {
		http.Error(w, "Failed to store logo", http.StatusInternalServerError)
		return
	}

	if err := h.Service.SetLogo(r.Context(), userID, logoURL); err != nil {
		http.Error(w, "Failed to save logo URL", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"logo_url": logoURL})
}

// LogoProgress reports the percent uploaded for an in-flight logo upload
func (h *ProfileHandler) LogoProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	progress := -1
	if h.Uploader != nil {
		progress = h.Uploader.Progress(userID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"progress": progress})
}
