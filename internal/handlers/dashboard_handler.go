package handlers

import (
	"net/http"
	"time"

	"lescombis/internal/service"
)

// DashboardHandler handles the reconciliation read endpoints
type DashboardHandler struct {
	financeService *service.FinanceService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(financeService *service.FinanceService) *DashboardHandler {
	return &DashboardHandler{financeService: financeService}
}

// Dashboard handles GET /api/dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	annee := queryInt(r, "annee", "0")
	if annee == 0 {
		annee = time.Now().Year()
	}

	dashboard, err := h.financeService.ComputeDashboard(annee)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

// ResumeFinancier handles GET /api/finances/resume
func (h *DashboardHandler) ResumeFinancier(w http.ResponseWriter, r *http.Request) {
	annee := queryInt(r, "annee", "0")
	if annee == 0 {
		annee = time.Now().Year()
	}

	resume, err := h.financeService.ResumeFinancier(annee)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resume)
}
