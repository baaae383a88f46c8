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

// CotisationHandler handles the dues endpoints
type CotisationHandler struct {
	cotisationService *service.CotisationService
}

// NewCotisationHandler creates a new dues handler
func NewCotisationHandler(cotisationService *service.CotisationService) *CotisationHandler {
	return &CotisationHandler{cotisationService: cotisationService}
}

type cotisationsResponse struct {
	Cotisations []models.CotisationDetail `json:"cotisations"`
	Pagination  models.Pagination         `json:"pagination"`
}

// List handles GET /api/cotisations. Plain members only see their own
// dues; the treasurer sees everything.
func (h *CotisationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	page, limit := pageParams(r)
	filter := repository.CotisationFilter{
		MembreID: queryInt64(r, "membre_id"),
		Annee:    queryInt(r, "annee", "0"),
		Mois:     queryInt(r, "mois", "0"),
		Statut:   r.URL.Query().Get("statut"),
		Search:   r.URL.Query().Get("search"),
	}
	if !security.CanManageFinances(actor.Roles) {
		filter.MembreID = actor.ID
	}

	cotisations, pagination, err := h.cotisationService.ListCotisations(filter, page, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if cotisations == nil {
		cotisations = []models.CotisationDetail{}
	}

	respondJSON(w, http.StatusOK, cotisationsResponse{Cotisations: cotisations, Pagination: pagination})
}

type ouvrirPeriodeRequest struct {
	Mois  int `json:"mois"`
	Annee int `json:"annee"`
}

type ouvrirPeriodeResponse struct {
	Mois    int `json:"mois"`
	Annee   int `json:"annee"`
	Creees  int `json:"cotisations_creees"`
	Admises int `json:"deja_existantes"`
}

// OuvrirPeriode handles POST /api/cotisations/periodes
func (h *CotisationHandler) OuvrirPeriode(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	var req ouvrirPeriodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	created, skipped, err := h.cotisationService.OuvrirPeriode(req.Mois, req.Annee, actor.Roles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ouvrirPeriodeResponse{
		Mois:    req.Mois,
		Annee:   req.Annee,
		Creees:  created,
		Admises: skipped,
	})
}

type paiementRequest struct {
	ModePaiement      string `json:"mode_paiement"`
	ReferencePaiement string `json:"reference_paiement"`
	DatePaiement      string `json:"date_paiement"`
}

// EnregistrerPaiement handles POST /api/cotisations/{id}/paiement
func (h *CotisationHandler) EnregistrerPaiement(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req paiementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	datePaiement := time.Now()
	if req.DatePaiement != "" {
		datePaiement, err = time.Parse("2006-01-02", req.DatePaiement)
		if err != nil {
			respondServiceError(w, fmt.Errorf("%w: date_paiement doit être au format AAAA-MM-JJ", service.ErrInvalidInput))
			return
		}
	}

	cotisation, err := h.cotisationService.EnregistrerPaiement(id, req.ModePaiement, req.ReferencePaiement, datePaiement, actor.Roles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cotisation)
}

type resumeCotisationsResponse struct {
	Annee   int                       `json:"annee"`
	Resume  *models.ResumeCotisations `json:"resume"`
	ParMois []models.MoisResume       `json:"par_mois"`
}

// Resume handles GET /api/cotisations/resume/{annee}
func (h *CotisationHandler) Resume(w http.ResponseWriter, r *http.Request) {
	annee, err := pathID(r, "annee")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resume, parMois, err := h.cotisationService.ResumeAnnee(int(annee))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resumeCotisationsResponse{Annee: int(annee), Resume: resume, ParMois: parMois})
}

type retardsResponse struct {
	Membres []models.MembreEnRetard `json:"membres"`
}

// Retards handles GET /api/cotisations/retards
func (h *CotisationHandler) Retards(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", "0")

	membres, err := h.cotisationService.MembresEnRetard(limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if membres == nil {
		membres = []models.MembreEnRetard{}
	}

	respondJSON(w, http.StatusOK, retardsResponse{Membres: membres})
}
