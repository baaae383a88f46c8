package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	json "github.com/goccy/go-json"

	"lescombis/internal/security"
	"lescombis/internal/service"
)

// errorResponse is the JSON body of every non-2xx response
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
// Unknown errors are logged and reported as a plain 500 so internal
// detail never reaches the client.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAlreadyPaid):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, security.ErrExpiredToken), errors.Is(err, security.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "erreur interne du serveur")
	}
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: corps de requête invalide", service.ErrInvalidInput)
	}
	return nil
}
