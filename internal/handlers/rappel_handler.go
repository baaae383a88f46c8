package handlers

import (
	"net/http"

	"lescombis/internal/service"
)

// RappelHandler handles the manual dues reminder trigger
type RappelHandler struct {
	rappelService *service.RappelService
}

// NewRappelHandler creates a new reminder handler
func NewRappelHandler(rappelService *service.RappelService) *RappelHandler {
	return &RappelHandler{rappelService: rappelService}
}

type rappelsResponse struct {
	RappelsEnvoyes int `json:"rappels_envoyes"`
}

// Envoyer handles POST /api/rappels/cotisations, sending a reminder
// email to every member with late dues
func (h *RappelHandler) Envoyer(w http.ResponseWriter, r *http.Request) {
	sent, err := h.rappelService.EnvoyerRappels(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rappelsResponse{RappelsEnvoyes: sent})
}
