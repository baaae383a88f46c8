package service

import "errors"

// Error kinds returned by the engines. Handlers map these to HTTP status
// codes with errors.Is; messages for users are wrapped around them with
// fmt.Errorf("%w: ...").
var (
	ErrNotFound     = errors.New("enregistrement introuvable")
	ErrInvalidInput = errors.New("données invalides")
	ErrInvalidState = errors.New("transition non autorisée dans cet état")
	ErrForbidden    = errors.New("accès refusé")
	ErrConflict     = errors.New("modification concurrente")
	ErrAlreadyPaid  = errors.New("cotisation déjà payée")
)
