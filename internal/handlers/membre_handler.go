package handlers

import (
	"fmt"
	"net/http"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/security"
	"lescombis/internal/service"
)

// MembreHandler handles the member ledger endpoints
type MembreHandler struct {
	membreService     *service.MembreService
	cotisationService *service.CotisationService
	authService       *service.AuthService
}

// NewMembreHandler creates a new member handler
func NewMembreHandler(membreService *service.MembreService, cotisationService *service.CotisationService, authService *service.AuthService) *MembreHandler {
	return &MembreHandler{
		membreService:     membreService,
		cotisationService: cotisationService,
		authService:       authService,
	}
}

type membreRequest struct {
	NomComplet         string   `json:"nom_complet"`
	Telephone1         string   `json:"telephone_1"`
	Telephone2         string   `json:"telephone_2"`
	Email              string   `json:"email"`
	Profession         string   `json:"profession"`
	CotisationAnnuelle int64    `json:"cotisation_annuelle"`
	DateAdhesion       string   `json:"date_adhesion"`
	Roles              []string `json:"roles"`
	Password           string   `json:"mot_de_passe"`
}

func (req *membreRequest) toInput() (service.MembreInput, error) {
	in := service.MembreInput{
		NomComplet:         req.NomComplet,
		Telephone1:         req.Telephone1,
		Telephone2:         req.Telephone2,
		Email:              req.Email,
		Profession:         req.Profession,
		CotisationAnnuelle: req.CotisationAnnuelle,
		Roles:              req.Roles,
		Password:           req.Password,
	}
	if req.DateAdhesion != "" {
		d, err := time.Parse("2006-01-02", req.DateAdhesion)
		if err != nil {
			return in, fmt.Errorf("%w: date_adhesion doit être au format AAAA-MM-JJ", service.ErrInvalidInput)
		}
		in.DateAdhesion = d
	}
	return in, nil
}

type membresResponse struct {
	Membres    []models.Membre   `json:"membres"`
	Pagination models.Pagination `json:"pagination"`
}

// List handles GET /api/membres
func (h *MembreHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	search := r.URL.Query().Get("search")
	statut := r.URL.Query().Get("statut")

	membres, pagination, err := h.membreService.ListMembres(search, statut, page, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if membres == nil {
		membres = []models.Membre{}
	}

	respondJSON(w, http.StatusOK, membresResponse{Membres: membres, Pagination: pagination})
}

// Get handles GET /api/membres/{id}
func (h *MembreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	membre, err := h.membreService.GetMembre(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, membre)
}

// Create handles POST /api/membres
func (h *MembreHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	var req membreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	membre, err := h.membreService.CreateMembre(in, actor.Roles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, membre)
}

// Update handles PUT /api/membres/{id}
func (h *MembreHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req membreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	membre, err := h.membreService.UpdateMembre(id, in, actor.Roles)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, membre)
}

type statutRequest struct {
	Statut string `json:"statut"`
}

// ChangerStatut handles PATCH /api/membres/{id}/statut
func (h *MembreHandler) ChangerStatut(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req statutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.membreService.ChangerStatut(id, req.Statut, actor.Roles); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "statut modifié"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"nouveau_mot_de_passe"`
}

// ResetPassword handles POST /api/membres/{id}/password
func (h *MembreHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.authService.ResetPassword(id, req.NewPassword, actor.Roles); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "mot de passe réinitialisé"})
}

// StatutCotisations handles GET /api/membres/{id}/statut-cotisation.
// A member can only read their own dues status; the treasurer any.
func (h *MembreHandler) StatutCotisations(w http.ResponseWriter, r *http.Request) {
	actor := GetMembreFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if id != actor.ID && !security.CanManageFinances(actor.Roles) {
		respondError(w, http.StatusForbidden, "accès refusé")
		return
	}

	annee := queryInt(r, "annee", "0")
	if annee == 0 {
		annee = time.Now().Year()
	}

	statut, err := h.cotisationService.StatutMembre(id, annee)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statut)
}
