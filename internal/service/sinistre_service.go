package service

import (
	"fmt"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
	"lescombis/internal/security"
)

// Decisions accepted by Decider
const (
	DecisionApprouver = "approuve"
	DecisionRejeter   = "rejete"
)

// SinistreService drives a claim through its one-way lifecycle:
// en_attente -> approuve -> paye, or en_attente -> rejete. No transition
// ever brings a claim back; a member files a new claim to retry.
type SinistreService struct {
	sinistres SinistreStore
	types     TypeSinistreStore
	membres   MembreStore
	now       func() time.Time
}

// NewSinistreService creates a claims service
func NewSinistreService(sinistres SinistreStore, types TypeSinistreStore, membres MembreStore) *SinistreService {
	return &SinistreService{
		sinistres: sinistres,
		types:     types,
		membres:   membres,
		now:       time.Now,
	}
}

// Declarer files a new claim for a member. When montantDemande is nil the
// claim type's coverage amount applies.
func (s *SinistreService) Declarer(membreID, typeID int64, dateSinistre time.Time, description string, montantDemande *int64) (*models.Sinistre, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description requise", ErrInvalidInput)
	}

	now := s.now()
	if dateSinistre.IsZero() {
		return nil, fmt.Errorf("%w: date du sinistre requise", ErrInvalidInput)
	}
	if dateSinistre.After(now) {
		return nil, fmt.Errorf("%w: la date du sinistre ne peut pas être dans le futur", ErrInvalidInput)
	}

	m, err := s.membres.GetMembreByID(membreID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: membre inconnu", ErrNotFound)
	}

	t, err := s.types.GetTypeByID(typeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: type de sinistre inconnu", ErrNotFound)
	}

	montant := t.MontantCouverture
	if montantDemande != nil {
		if *montantDemande <= 0 {
			return nil, fmt.Errorf("%w: montant demandé invalide", ErrInvalidInput)
		}
		montant = *montantDemande
	}

	sinistre := &models.Sinistre{
		MembreID:        membreID,
		TypeSinistreID:  typeID,
		DateSinistre:    dateSinistre,
		DateDeclaration: now,
		Description:     description,
		MontantDemande:  montant,
		Statut:          models.SinistreEnAttente,
	}

	return s.sinistres.CreateSinistre(sinistre)
}

// DecisionInput carries a treasurer's decision on a pending claim
type DecisionInput struct {
	Decision            string
	MontantApprouve     *int64
	MotifRejet          string
	Remarques           string
	ValidationConfirmee bool
}

// Decider applies an approve/reject decision to a pending claim. Claims of
// a type flagged for manual validation additionally require the explicit
// reviewed acknowledgement before approval. Concurrent decisions are
// serialized per claim; the loser gets ErrConflict and never mutates it.
func (s *SinistreService) Decider(sinistreID int64, in DecisionInput, actorID int64, actorRoles []string) (*models.SinistreDetail, error) {
	if !security.CanManageFinances(actorRoles) {
		return nil, ErrForbidden
	}

	sinistre, err := s.sinistres.GetSinistreByID(sinistreID)
	if err != nil {
		return nil, err
	}
	if sinistre == nil {
		return nil, ErrNotFound
	}
	if sinistre.Statut != models.SinistreEnAttente {
		return nil, fmt.Errorf("%w: le sinistre n'est plus en attente", ErrInvalidState)
	}

	now := s.now()
	var updated bool
	switch in.Decision {
	case DecisionApprouver:
		if in.MontantApprouve == nil || *in.MontantApprouve < 0 {
			return nil, fmt.Errorf("%w: montant approuvé requis", ErrInvalidInput)
		}
		if sinistre.NecessiteValidation && !in.ValidationConfirmee {
			return nil, fmt.Errorf("%w: ce type de sinistre nécessite une validation manuelle confirmée", ErrInvalidInput)
		}
		updated, err = s.sinistres.Approve(sinistreID, actorID, *in.MontantApprouve, in.Remarques, now)
	case DecisionRejeter:
		if in.MotifRejet == "" {
			return nil, fmt.Errorf("%w: motif de rejet requis", ErrInvalidInput)
		}
		updated, err = s.sinistres.Reject(sinistreID, actorID, in.MotifRejet, in.Remarques, now)
	default:
		return nil, fmt.Errorf("%w: décision inconnue %q", ErrInvalidInput, in.Decision)
	}
	if err != nil {
		return nil, err
	}
	if !updated {
		// A concurrent decision won the race
		return nil, ErrConflict
	}

	return s.sinistres.GetSinistreByID(sinistreID)
}

// Payer marks an approved claim as paid out. Only approved claims qualify;
// pending, rejected and already-paid claims yield ErrInvalidState.
func (s *SinistreService) Payer(sinistreID int64, actorRoles []string) (*models.SinistreDetail, error) {
	if !security.CanManageFinances(actorRoles) {
		return nil, ErrForbidden
	}

	sinistre, err := s.sinistres.GetSinistreByID(sinistreID)
	if err != nil {
		return nil, err
	}
	if sinistre == nil {
		return nil, ErrNotFound
	}
	if sinistre.Statut != models.SinistreApprouve {
		return nil, fmt.Errorf("%w: seul un sinistre approuvé peut être payé", ErrInvalidState)
	}

	updated, err := s.sinistres.MarkPaid(sinistreID, s.now())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConflict
	}

	return s.sinistres.GetSinistreByID(sinistreID)
}

// ListSinistres returns a page of claims
func (s *SinistreService) ListSinistres(f repository.SinistreFilter, page, limit int) ([]models.SinistreDetail, models.Pagination, error) {
	details, total, err := s.sinistres.ListSinistres(f, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return details, models.NewPagination(page, limit, total), nil
}

// GetSinistre retrieves one claim
func (s *SinistreService) GetSinistre(id int64) (*models.SinistreDetail, error) {
	sinistre, err := s.sinistres.GetSinistreByID(id)
	if err != nil {
		return nil, err
	}
	if sinistre == nil {
		return nil, ErrNotFound
	}
	return sinistre, nil
}

// ListTypes returns the claim-type reference data
func (s *SinistreService) ListTypes() ([]models.TypeSinistre, error) {
	return s.types.ListTypes()
}

// Stats aggregates the claim counters for the claims dashboard
func (s *SinistreService) Stats() (*models.StatsSinistres, error) {
	return s.sinistres.Stats()
}
