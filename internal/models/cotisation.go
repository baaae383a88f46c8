package models

import "time"

// Dues statuses. "payee" is recorded; the other two are derived from the
// due date and are never stored.
const (
	CotisationPayee    = "payee"
	CotisationImpayee  = "impayee"
	CotisationEnRetard = "en_retard"
)

// Payment methods
const (
	ModeMobileMoney = "mobile_money"
	ModeEspeces     = "especes"
	ModeVirement    = "virement"
)

// Cotisation is one member's dues obligation for a specific month.
// (membre_id, mois, annee) is unique.
type Cotisation struct {
	ID                int64      `json:"id"`
	MembreID          int64      `json:"membre_id"`
	Mois              int        `json:"mois"`
	Annee             int        `json:"annee"`
	Montant           int64      `json:"montant_mensuel"`
	DateEcheance      time.Time  `json:"date_echeance"`
	DatePaiement      *time.Time `json:"date_paiement,omitempty"`
	ModePaiement      string     `json:"mode_paiement,omitempty"`
	ReferencePaiement string     `json:"reference_paiement,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EstPayee reports whether a payment has been recorded
func (c *Cotisation) EstPayee() bool {
	return c.DatePaiement != nil
}

// StatutAsOf computes the real status of the cotisation at a point in time.
// Paid wins regardless of the due date; otherwise the due date decides
// between late and simply unpaid. The result depends on the passage of
// time and must never be cached.
func (c *Cotisation) StatutAsOf(now time.Time) string {
	if c.EstPayee() {
		return CotisationPayee
	}
	if now.After(c.DateEcheance) {
		return CotisationEnRetard
	}
	return CotisationImpayee
}

// JoursRetard returns how many whole days past due the cotisation is,
// or 0 when paid or not yet due
func (c *Cotisation) JoursRetard(now time.Time) int {
	if c.EstPayee() || !now.After(c.DateEcheance) {
		return 0
	}
	return int(now.Sub(c.DateEcheance).Hours() / 24)
}

// ValidModePaiement reports whether s is a recognized payment method
func ValidModePaiement(s string) bool {
	return s == ModeMobileMoney || s == ModeEspeces || s == ModeVirement
}

// CotisationDetail is a cotisation joined with member display fields and
// its computed status, as returned by list endpoints
type CotisationDetail struct {
	Cotisation
	NomComplet  string `json:"nom_complet"`
	Telephone1  string `json:"telephone_1"`
	StatutReel  string `json:"statut_reel"`
	JoursRetard int    `json:"jours_retard"`
}
