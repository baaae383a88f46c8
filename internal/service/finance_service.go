package service

import (
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
)

// FinanceService is the read-side reconciliation of the dues and claims
// engines: it owns no records and recomputes every figure on demand.
type FinanceService struct {
	cotisations CotisationStore
	sinistres   SinistreStore
	membres     MembreStore
	now         func() time.Time
}

// NewFinanceService creates a reconciliation service
func NewFinanceService(cotisations CotisationStore, sinistres SinistreStore, membres MembreStore) *FinanceService {
	return &FinanceService{
		cotisations: cotisations,
		sinistres:   sinistres,
		membres:     membres,
		now:         time.Now,
	}
}

// ResumeFinancier computes the year's financial summary. Collected dues
// are restricted to the year; claim payouts are lifetime figures, matching
// the association's books. Net balance = collected - paid claims.
func (s *FinanceService) ResumeFinancier(annee int) (*models.ResumeFinancier, error) {
	dues, err := s.cotisations.ResumeAnnee(annee, s.now())
	if err != nil {
		return nil, err
	}
	stats, err := s.sinistres.Stats()
	if err != nil {
		return nil, err
	}

	return &models.ResumeFinancier{
		Annee:                     annee,
		MontantEncaisse:           dues.MontantEncaisse,
		MontantAttenduCotisations: dues.MontantAttendu,
		MontantPayeSinistres:      stats.MontantPaye,
		MontantAPayerSinistres:    stats.MontantAPayer,
		SoldeActuel:               dues.MontantEncaisse - stats.MontantPaye,
	}, nil
}

// Dashboard aggregates everything the landing page shows
type Dashboard struct {
	Membres struct {
		Total    int `json:"total"`
		Actifs   int `json:"actifs"`
		Inactifs int `json:"inactifs"`
	} `json:"membres"`
	Financier        *models.ResumeFinancier `json:"financier"`
	ParMois          []models.MoisResume     `json:"par_mois"`
	MembresEnRetard  []models.MembreEnRetard `json:"membres_en_retard"`
	SinistresStats   *models.StatsSinistres  `json:"sinistres"`
	SinistresRecents []models.SinistreDetail `json:"sinistres_recents"`
}

// ComputeDashboard builds the dashboard for a year
func (s *FinanceService) ComputeDashboard(annee int) (*Dashboard, error) {
	d := &Dashboard{}

	counts, err := s.membres.CountByStatut()
	if err != nil {
		return nil, err
	}
	d.Membres.Actifs = counts[models.StatutActif]
	for _, n := range counts {
		d.Membres.Total += n
	}
	d.Membres.Inactifs = d.Membres.Total - d.Membres.Actifs

	if d.Financier, err = s.ResumeFinancier(annee); err != nil {
		return nil, err
	}
	if d.ParMois, err = s.cotisations.ParMois(annee); err != nil {
		return nil, err
	}
	if d.MembresEnRetard, err = s.cotisations.ListMembresEnRetard(s.now(), 10); err != nil {
		return nil, err
	}
	if d.SinistresStats, err = s.sinistres.Stats(); err != nil {
		return nil, err
	}
	recents, _, err := s.sinistres.ListSinistres(repository.SinistreFilter{}, 1, 5)
	if err != nil {
		return nil, err
	}
	d.SinistresRecents = recents

	return d, nil
}
