package handlers

import (
	"fmt"
	"net/http"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
	"lescombis/internal/security"
	"lescombis/internal/service"
)

// SinistreHandler handles the claims endpoints
type SinistreHandler struct {
	sinistreService *service.SinistreService
}

// NewSinistreHandler creates a new claims handler
func NewSinistreHandler(sinistreService *service.SinistreService) *SinistreHandler {
	return &SinistreHandler{sinistreService: sinistreService}
}

type declarerRequest struct {
	MembreID       int64  `json:"membre_id"`
	TypeSinistreID int64  `json:"type_sinistre_id"`
	DateSinistre   string `json:"date_sinistre"`
	Description    string `json:"description"`
	MontantDemande *int64 `json:"montant_demande"`
}

// Declarer handles POST /api/sinistres. A member declares their own
// claim; the treasurer may declare on behalf of any member.
func (h *SinistreHandler) Declarer(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	var req declarerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	membreID := actor.ID
	if req.MembreID != 0 && req.MembreID != actor.ID {
		if !security.CanManageFinances(actor.Roles) {
			respondError(w, http.StatusForbidden, "vous ne pouvez déclarer que vos propres sinistres")
			return
		}
		membreID = req.MembreID
	}

	dateSinistre, err := time.Parse("2006-01-02", req.DateSinistre)
	if err != nil {
		respondServiceError(w, fmt.Errorf("%w: date_sinistre doit être au format AAAA-MM-JJ", service.ErrInvalidInput))
		return
	}

	sinistre, err := h.sinistreService.Declarer(membreID, req.TypeSinistreID, dateSinistre, req.Description, req.MontantDemande)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sinistre)
}

type sinistresResponse struct {
	Sinistres  []models.SinistreDetail `json:"sinistres"`
	Pagination models.Pagination       `json:"pagination"`
}

// List handles GET /api/sinistres. Plain members only see their own
// claims; the treasurer sees everything.
func (h *SinistreHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	page, limit := pageParams(r)
	filter := repository.SinistreFilter{
		MembreID:       queryInt64(r, "membre_id"),
		TypeSinistreID: queryInt64(r, "type_sinistre_id"),
		Statut:         r.URL.Query().Get("statut"),
	}
	if debut := r.URL.Query().Get("date_debut"); debut != "" {
		d, err := time.Parse("2006-01-02", debut)
		if err != nil {
			respondServiceError(w, fmt.Errorf("%w: date_debut doit être au format AAAA-MM-JJ", service.ErrInvalidInput))
			return
		}
		filter.DateDebut = d
	}
	if fin := r.URL.Query().Get("date_fin"); fin != "" {
		d, err := time.Parse("2006-01-02", fin)
		if err != nil {
			respondServiceError(w, fmt.Errorf("%w: date_fin doit être au format AAAA-MM-JJ", service.ErrInvalidInput))
			return
		}
		// inclusive of the whole end day
		filter.DateFin = d.AddDate(0, 0, 1).Add(-time.Second)
	}
	if !security.CanManageFinances(actor.Roles) {
		filter.MembreID = actor.ID
	}

	sinistres, pagination, err := h.sinistreService.ListSinistres(filter, page, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if sinistres == nil {
		sinistres = []models.SinistreDetail{}
	}

	respondJSON(w, http.StatusOK, sinistresResponse{Sinistres: sinistres, Pagination: pagination})
}

// Get handles GET /api/sinistres/{id}
func (h *SinistreHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	sinistre, err := h.sinistreService.GetSinistre(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if sinistre.MembreID != actor.ID && !security.CanManageFinances(actor.Roles) {
		respondError(w, http.StatusForbidden, "accès refusé")
		return
	}

	respondJSON(w, http.StatusOK, sinistre)
}

type decisionRequest struct {
	Decision            string `json:"decision"`
	MontantApprouve     *int64 `json:"montant_approuve"`
	MotifRejet          string `json:"motif_rejet"`
	Remarques           string `json:"remarques"`
	ValidationConfirmee bool   `json:"validation_confirmee"`
}

// Decider handles PATCH /api/sinistres/{id}/statut
func (h *SinistreHandler) Decider(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	sinistre, err := h.sinistreService.Decider(id, service.DecisionInput{
		Decision:            req.Decision,
		MontantApprouve:     req.MontantApprouve,
		MotifRejet:          req.MotifRejet,
		Remarques:           req.Remarques,
		ValidationConfirmee: req.ValidationConfirmee,
	}, actor.ID, actor.Roles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sinistre)
}

// Payer handles POST /api/sinistres/{id}/paiement
func (h *SinistreHandler) Payer(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	sinistre, err := h.sinistreService.Payer(id, actor.Roles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sinistre)
}

type typesResponse struct {
	Types []models.TypeSinistre `json:"types"`
}

// ListTypes handles GET /api/sinistres/types
func (h *SinistreHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.sinistreService.ListTypes()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if types == nil {
		types = []models.TypeSinistre{}
	}

	respondJSON(w, http.StatusOK, typesResponse{Types: types})
}

// Stats handles GET /api/sinistres/stats/resume
func (h *SinistreHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sinistreService.Stats()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
