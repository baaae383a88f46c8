package service

import (
	"fmt"
	"math"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
	"lescombis/internal/security"
)

// CotisationService hosts the dues rules: opening billing periods,
// recording payments and computing statuses and summaries. Statuses are
// always computed against the current date, never cached.
type CotisationService struct {
	cotisations CotisationStore
	membres     MembreStore
	dueDay      int
	now         func() time.Time
}

// NewCotisationService creates a dues service. dueDay is the day of the
// month a cotisation falls due.
func NewCotisationService(cotisations CotisationStore, membres MembreStore, dueDay int) *CotisationService {
	return &CotisationService{
		cotisations: cotisations,
		membres:     membres,
		dueDay:      dueDay,
		now:         time.Now,
	}
}

// OuvrirPeriode creates one cotisation per active member for (mois, annee).
// Members enrolled after the period are skipped, as are members who already
// have an instance for the period (the unique key makes reopening safe).
func (s *CotisationService) OuvrirPeriode(mois, annee int, actorRoles []string) (created, skipped int, err error) {
	if !security.CanManageFinances(actorRoles) {
		return 0, 0, ErrForbidden
	}
	if mois < 1 || mois > 12 {
		return 0, 0, fmt.Errorf("%w: mois invalide", ErrInvalidInput)
	}
	if annee < 2000 || annee > 2100 {
		return 0, 0, fmt.Errorf("%w: année invalide", ErrInvalidInput)
	}

	membres, err := s.membres.ListMembresActifs()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list active members: %w", err)
	}

	echeance := time.Date(annee, time.Month(mois), s.dueDay, 0, 0, 0, 0, time.UTC)
	finPeriode := time.Date(annee, time.Month(mois)+1, 1, 0, 0, 0, 0, time.UTC)

	for _, m := range membres {
		// No obligation for months before enrollment
		if !m.DateAdhesion.Before(finPeriode) {
			skipped++
			continue
		}

		c := &models.Cotisation{
			MembreID:     m.ID,
			Mois:         mois,
			Annee:        annee,
			Montant:      m.CotisationMensuelle(),
			DateEcheance: echeance,
		}
		if _, err := s.cotisations.CreateCotisation(c); err != nil {
			if err == repository.ErrDuplicate {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}

	return created, skipped, nil
}

// EnregistrerPaiement records a payment against an unpaid cotisation.
// Exactly one of two concurrent calls can succeed; the loser gets
// ErrAlreadyPaid and the first payment's fields are left untouched.
func (s *CotisationService) EnregistrerPaiement(id int64, mode, reference string, datePaiement time.Time, actorRoles []string) (*models.Cotisation, error) {
	if !security.CanManageFinances(actorRoles) {
		return nil, ErrForbidden
	}
	if datePaiement.IsZero() {
		return nil, fmt.Errorf("%w: date de paiement requise", ErrInvalidInput)
	}
	if !models.ValidModePaiement(mode) {
		return nil, fmt.Errorf("%w: mode de paiement inconnu %q", ErrInvalidInput, mode)
	}

	c, err := s.cotisations.GetCotisationByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.EstPayee() {
		return nil, ErrAlreadyPaid
	}

	updated, err := s.cotisations.RecordPayment(id, mode, reference, datePaiement)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost the race against a concurrent payment
		return nil, ErrAlreadyPaid
	}

	return s.cotisations.GetCotisationByID(id)
}

// ListCotisations returns a page of dues instances with their computed
// status and days late attached
func (s *CotisationService) ListCotisations(f repository.CotisationFilter, page, limit int) ([]models.CotisationDetail, models.Pagination, error) {
	now := s.now()
	f.Now = now

	details, total, err := s.cotisations.ListCotisations(f, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	for i := range details {
		details[i].StatutReel = details[i].StatutAsOf(now)
		details[i].JoursRetard = details[i].Cotisation.JoursRetard(now)
	}

	return details, models.NewPagination(page, limit, total), nil
}

// StatutMembre summarizes one member's dues position for a year. The
// expected month count is the number of instances that exist, which
// excludes months before enrollment.
func (s *CotisationService) StatutMembre(membreID int64, annee int) (*models.StatutCotisationMembre, error) {
	m, err := s.membres.GetMembreByID(membreID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}

	cotisations, err := s.cotisations.ListByMembreAnnee(membreID, annee)
	if err != nil {
		return nil, err
	}

	now := s.now()
	statut := &models.StatutCotisationMembre{MembreID: membreID, Annee: annee}
	for _, c := range cotisations {
		statut.TotalMois++
		statut.TotalDu += c.Montant
		switch c.StatutAsOf(now) {
		case models.CotisationPayee:
			statut.MoisPayes++
			statut.TotalPaye += c.Montant
		case models.CotisationEnRetard:
			statut.MoisEnRetard++
		}
	}

	statut.TotalImpaye = statut.TotalDu - statut.TotalPaye
	statut.EstAJour = statut.MoisEnRetard == 0
	if statut.TotalMois > 0 {
		statut.PourcentagePaye = int(math.Round(float64(statut.MoisPayes) / float64(statut.TotalMois) * 100))
	}

	return statut, nil
}

// ResumeAnnee aggregates the year's dues counters and the per-month
// evolution, months ordered ascending
func (s *CotisationService) ResumeAnnee(annee int) (*models.ResumeCotisations, []models.MoisResume, error) {
	resume, err := s.cotisations.ResumeAnnee(annee, s.now())
	if err != nil {
		return nil, nil, err
	}
	parMois, err := s.cotisations.ParMois(annee)
	if err != nil {
		return nil, nil, err
	}
	return resume, parMois, nil
}

// MembresEnRetard lists members with overdue dues, most indebted first
func (s *CotisationService) MembresEnRetard(limit int) ([]models.MembreEnRetard, error) {
	return s.cotisations.ListMembresEnRetard(s.now(), limit)
}
