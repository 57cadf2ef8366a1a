package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"facture-backend/internal/middleware"
	"facture-backend/internal/models"
	"facture-backend/internal/services"

	"github.com/gorilla/mux"
)

type ClientHandler struct {
	Service *services.ClientService
}

func NewClientHandler(s *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: s}
}

func requestScope(w http.ResponseWriter, r *http.Request) (userID int, ok bool) {
	userID, ok = middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	var req models.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.Service.CreateClient(r.Context(), userID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(client)
}

// List returns the user's active clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	clients, err := h.Service.ListClients(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// ListTrash returns the user's trashed clients
func (h *ClientHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}

	clients, err := h.Service.ListTrashedClients(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch trash", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	client, err := h.Service.GetClient(r.Context(), userID, id)
	if err != nil {
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.Service.UpdateClient(r.Context(), userID, id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// Delete moves a client to the trash
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteClient(r.Context(), userID, id); err != nil {
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Client moved to trash"})
}

// Restore moves a trashed client back to the active listing
func (h *ClientHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.RestoreClient(r.Context(), userID, id); err != nil {
		http.Error(w, "Failed to restore client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Client restored"})
}

// PermanentDelete removes a single trashed client for good
func (h *ClientHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.PermanentlyDeleteClient(r.Context(), userID, id); err != nil {
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Client permanently deleted"})
}

// PurgeTrash empties the client trash
func (h *ClientHandler) PurgeTrash(w http.ResponseWriter, r *http.Request) {
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
