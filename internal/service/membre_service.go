package service

import (
	"fmt"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
	"lescombis/internal/security"
	"lescombis/internal/utils"
)

// MembreService is the member ledger: the source of truth for who owes
// dues and how much. Members are never deleted, only deactivated.
type MembreService struct {
	membres MembreStore
}

// NewMembreService creates a member service
func NewMembreService(membres MembreStore) *MembreService {
	return &MembreService{membres: membres}
}

// MembreInput carries the fields of a member create/update
type MembreInput struct {
	NomComplet         string
	Telephone1         string
	Telephone2         string
	Email              string
	Profession         string
	CotisationAnnuelle int64
	DateAdhesion       time.Time
	Roles              []string
	Password           string
}

func (in *MembreInput) validate() error {
	if err := utils.ValidateNomComplet(in.NomComplet); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := utils.ValidateTelephone(in.Telephone1); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Email != "" {
		if err := utils.ValidateEmail(in.Email); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if in.CotisationAnnuelle <= 0 {
		return fmt.Errorf("%w: cotisation annuelle invalide", ErrInvalidInput)
	}
	for _, role := range in.Roles {
		if !models.ValidRole(role) {
			return fmt.Errorf("%w: rôle inconnu %q", ErrInvalidInput, role)
		}
	}
	return nil
}

// CreateMembre enrolls a new member. Admin only.
func (s *MembreService) CreateMembre(in MembreInput, actorRoles []string) (*models.Membre, error) {
	if !security.CanManageMembers(actorRoles) {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dateAdhesion := in.DateAdhesion
	if dateAdhesion.IsZero() {
		dateAdhesion = time.Now()
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleMembre}
	}

	m := &models.Membre{
		NomComplet:         in.NomComplet,
		Telephone1:         utils.NormalizeTelephone(in.Telephone1),
		Telephone2:         utils.NormalizeTelephone(in.Telephone2),
		Email:              in.Email,
		Profession:         in.Profession,
		CotisationAnnuelle: in.CotisationAnnuelle,
		DateAdhesion:       dateAdhesion,
		Statut:             models.StatutActif,
		Roles:              roles,
		PasswordHash:       passwordHash,
	}

	created, err := s.membres.CreateMembre(m)
	if err != nil {
		if err == repository.ErrDuplicate {
			return nil, fmt.Errorf("%w: un membre avec ce téléphone existe déjà", ErrConflict)
		}
		return nil, err
	}
	return created, nil
}

// GetMembre retrieves one member
func (s *MembreService) GetMembre(id int64) (*models.Membre, error) {
	m, err := s.membres.GetMembreByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// ListMembres retrieves a page of members with optional search and status
// filter
func (s *MembreService) ListMembres(search, statut string, page, limit int) ([]models.Membre, models.Pagination, error) {
	membres, total, err := s.membres.ListMembres(search, statut, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return membres, models.NewPagination(page, limit, total), nil
}

// UpdateMembre updates a member's profile. Admin only.
func (s *MembreService) UpdateMembre(id int64, in MembreInput, actorRoles []string) (*models.Membre, error) {
	if !security.CanManageMembers(actorRoles) {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	m, err := s.GetMembre(id)
	if err != nil {
		return nil, err
	}

	m.NomComplet = in.NomComplet
	m.Telephone1 = utils.NormalizeTelephone(in.Telephone1)
	m.Telephone2 = utils.NormalizeTelephone(in.Telephone2)
	m.Email = in.Email
	m.Profession = in.Profession
	m.CotisationAnnuelle = in.CotisationAnnuelle
	if len(in.Roles) > 0 {
		m.Roles = in.Roles
	}

	if err := s.membres.UpdateMembre(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ChangerStatut moves a member between actif, inactif and suspendu.
// Admin only; deactivation replaces deletion.
func (s *MembreService) ChangerStatut(id int64, statut string, actorRoles []string) error {
	if !security.CanManageMembers(actorRoles) {
		return ErrForbidden
	}
	if !models.ValidStatut(statut) {
		return fmt.Errorf("%w: statut inconnu %q", ErrInvalidInput, statut)
	}
	if err := s.membres.UpdateStatut(id, statut); err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
