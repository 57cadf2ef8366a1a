package handlers

import (
	"log"
	"net/http"

	"facture-backend/internal/auth"
	"facture-backend/internal/realtime"
)

// RealtimeHandler upgrades authenticated requests to websocket change
// feeds. Browsers cannot set headers on websocket requests, so the token
// is read from the query string.
type RealtimeHandler struct {
	hub        *realtime.Hub
	jwtManager *auth.JWTManager
}

func NewRealtimeHandler(hub *realtime.Hub, jwtManager *auth.JWTManager) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, jwtManager: jwtManager}
}

func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	if err := h.hub.Subscribe(w, r, claims.UserID); err != nil {
		log.Printf("[Realtime] Upgrade failed for user %d: %v", claims.UserID, err)
	}
}
