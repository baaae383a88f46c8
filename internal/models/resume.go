package models

// French month names, indexed 1..12
var nomsMois = [13]string{"",
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// NomMois returns the French name of a month (1..12), or "" out of range
func NomMois(mois int) string {
	if mois < 1 || mois > 12 {
		return ""
	}
	return nomsMois[mois]
}

// ResumeCotisations carries the yearly dues counters shown above the dues
// table
type ResumeCotisations struct {
	TotalCotisations    int   `json:"total_cotisations"`
	CotisationsPayees   int   `json:"cotisations_payees"`
	CotisationsImpayees int   `json:"cotisations_impayees"`
	CotisationsEnRetard int   `json:"cotisations_en_retard"`
	MontantEncaisse     int64 `json:"montant_encaisse"`
	MontantAttendu      int64 `json:"montant_attendu"`
}

// MoisResume is one month's entry of the monthly evolution view
type MoisResume struct {
	Mois            int    `json:"mois"`
	NomMois         string `json:"nom_mois"`
	Total           int    `json:"total"`
	Payes           int    `json:"payes"`
	MontantEncaisse int64  `json:"montant_encaisse"`
	MontantAttendu  int64  `json:"montant_attendu"`
}

// StatutCotisationMembre summarizes one member's dues position for a year
type StatutCotisationMembre struct {
	MembreID        int64 `json:"membre_id"`
	Annee           int   `json:"annee"`
	EstAJour        bool  `json:"est_a_jour"`
	MoisPayes       int   `json:"mois_payes"`
	MoisEnRetard    int   `json:"mois_en_retard"`
	TotalMois       int   `json:"total_mois"`
	PourcentagePaye int   `json:"pourcentage_paye"`
	TotalPaye       int64 `json:"total_paye"`
	TotalDu         int64 `json:"total_du"`
	TotalImpaye     int64 `json:"total_impaye"`
}

// StatsSinistres carries the claim counters of the claims dashboard
type StatsSinistres struct {
	TotalSinistres int   `json:"total_sinistres"`
	EnAttente      int   `json:"en_attente"`
	Approuves      int   `json:"approuves"`
	Rejetes        int   `json:"rejetes"`
	Payes          int   `json:"payes"`
	MontantDemande int64 `json:"montant_demande"`
	MontantPaye    int64 `json:"montant_paye"`
	MontantAPayer  int64 `json:"montant_a_payer"`
}

// ResumeFinancier is the derived financial summary: collected dues minus
// paid claims, recomputed on demand and never stored
type ResumeFinancier struct {
	Annee                     int   `json:"annee"`
	MontantEncaisse           int64 `json:"montant_encaisse"`
	MontantAttenduCotisations int64 `json:"montant_attendu_cotisations"`
	MontantPayeSinistres      int64 `json:"montant_paye_sinistres"`
	MontantAPayerSinistres    int64 `json:"montant_a_payer_sinistres"`
	SoldeActuel               int64 `json:"solde_actuel"`
}

// MembreEnRetard is a dashboard row for a member with overdue dues
type MembreEnRetard struct {
	MembreID     int64  `json:"membre_id"`
	NomComplet   string `json:"nom_complet"`
	Telephone1   string `json:"telephone_1"`
	Email        string `json:"email,omitempty"`
	MoisEnRetard int    `json:"mois_en_retard"`
	MontantDu    int64  `json:"montant_du"`
}

// Pagination describes a page of results
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes page counts for a total number of rows
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
