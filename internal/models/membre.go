package models

import "time"

// Member statuses
const (
	StatutActif    = "actif"
	StatutInactif  = "inactif"
	StatutSuspendu = "suspendu"
)

// Member roles (non-exclusive, a member can hold several)
const (
	RoleMembre    = "membre"
	RoleTresorier = "tresorier"
	RoleAdmin     = "admin"
)

// Membre represents a member of the association
type Membre struct {
	ID                 int64     `json:"id"`
	NomComplet         string    `json:"nom_complet"`
	Telephone1         string    `json:"telephone_1"`
	Telephone2         string    `json:"telephone_2,omitempty"`
	Email              string    `json:"email,omitempty"`
	Profession         string    `json:"profession,omitempty"`
	CotisationAnnuelle int64     `json:"cotisation_annuelle"`
	DateAdhesion       time.Time `json:"date_adhesion"`
	Statut             string    `json:"statut"`
	Roles              []string  `json:"roles"`
	PasswordHash       string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CotisationMensuelle derives the monthly dues amount from the annual one.
// The annual figure is authoritative; FCFA has no subunits so the division
// rounds half-up to the nearest franc.
func (m *Membre) CotisationMensuelle() int64 {
	return (m.CotisationAnnuelle + 6) / 12
}

// HasRole reports whether the member holds the given role
func (m *Membre) HasRole(role string) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsActif reports whether the member is currently active
func (m *Membre) IsActif() bool {
	return m.Statut == StatutActif
}

// ValidStatut reports whether s is a recognized member status
func ValidStatut(s string) bool {
	return s == StatutActif || s == StatutInactif || s == StatutSuspendu
}

// ValidRole reports whether s is a recognized role
func ValidRole(s string) bool {
	return s == RoleMembre || s == RoleTresorier || s == RoleAdmin
}
