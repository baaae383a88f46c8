package models

import "time"

// Claim lifecycle states. A claim starts en_attente and moves one way:
// en_attente -> approuve -> paye, or en_attente -> rejete.
const (
	SinistreEnAttente = "en_attente"
	SinistreApprouve  = "approuve"
	SinistreRejete    = "rejete"
	SinistrePaye      = "paye"
)

// TypeSinistre is static reference data describing a category of claim
type TypeSinistre struct {
	ID                  int64  `json:"id"`
	Nom                 string `json:"nom"`
	MontantCouverture   int64  `json:"montant_couverture"`
	NecessiteValidation bool   `json:"necessite_validation"`
}

// Sinistre is a member's mutual-assistance claim
type Sinistre struct {
	ID              int64      `json:"id"`
	MembreID        int64      `json:"membre_id"`
	TypeSinistreID  int64      `json:"type_sinistre_id"`
	DateSinistre    time.Time  `json:"date_sinistre"`
	DateDeclaration time.Time  `json:"date_declaration"`
	Description     string     `json:"description"`
	MontantDemande  int64      `json:"montant_demande"`
	MontantApprouve *int64     `json:"montant_approuve,omitempty"`
	Statut          string     `json:"statut"`
	MotifRejet      string     `json:"motif_rejet,omitempty"`
	Remarques       string     `json:"remarques,omitempty"`
	TraiteParID     *int64     `json:"traite_par_id,omitempty"`
	DateTraitement  *time.Time `json:"date_traitement,omitempty"`
	DatePaiement    *time.Time `json:"date_paiement,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EstTermine reports whether the claim is in a terminal state
func (s *Sinistre) EstTermine() bool {
	return s.Statut == SinistreRejete || s.Statut == SinistrePaye
}

// SinistreDetail is a claim joined with member and type display fields
type SinistreDetail struct {
	Sinistre
	NomComplet          string `json:"nom_complet"`
	TypeSinistreNom     string `json:"type_sinistre_nom"`
	MontantCouverture   int64  `json:"montant_couverture"`
	NecessiteValidation bool   `json:"necessite_validation"`
}
