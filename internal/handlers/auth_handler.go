package handlers

import (
	"net/http"

	"lescombis/internal/models"
	"lescombis/internal/service"
)

// AuthHandler handles login and password endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Telephone string `json:"telephone"`
	Password  string `json:"mot_de_passe"`
}

type loginResponse struct {
	Token  string         `json:"token"`
	Membre *models.Membre `json:"membre"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	token, membre, err := h.authService.Login(req.Telephone, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, Membre: membre})
}

// Verify handles GET /api/auth/verify, returning the authenticated member
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	membre := GetMembreFromContext(r.Context())
	if membre == nil {
		respondError(w, http.StatusUnauthorized, "authentification requise")
		return
	}
	respondJSON(w, http.StatusOK, membre)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"mot_de_passe_actuel"`
	NewPassword     string `json:"nouveau_mot_de_passe"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	membre := GetMembreFromContext(r.Context())
	if membre == nil {
		respondError(w, http.StatusUnauthorized, "authentification requise")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.authService.ChangePassword(membre.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "mot de passe modifié"})
}
