package handlers

import (
	"net/http"

	"facture-backend/internal/health"
	"facture-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Basic reports service and database health
func (h *HealthHandler) Basic(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	utils.JSON(w, code, status)
}

// Detailed adds host CPU, memory and disk usage
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckDetailed()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	utils.JSON(w, code, status)
}
