package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lescombis/internal/models"
	"lescombis/internal/repository"
)

var tresorierRoles = []string{models.RoleMembre, models.RoleTresorier}

func newCotisationServiceForTest(membres *fakeMembreStore, cotisations *fakeCotisationStore, now time.Time) *CotisationService {
	s := NewCotisationService(cotisations, membres, 5)
	s.now = func() time.Time { return now }
	return s
}

func activeMembre(annuel int64, adhesion time.Time) models.Membre {
	return models.Membre{
		NomComplet:         "Membre Test",
		Statut:             models.StatutActif,
		CotisationAnnuelle: annuel,
		DateAdhesion:       adhesion,
	}
}

func TestOuvrirPeriode(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	membres.add(activeMembre(120000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	membres.add(activeMembre(240000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	suspendu := activeMembre(120000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	suspendu.Statut = models.StatutSuspendu
	membres.add(suspendu)

	created, skipped, err := s.OuvrirPeriode(6, 2025, tresorierRoles)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)

	// Suspended members get no obligation
	assert.Len(t, cotisations.cotisations, 2)

	c := cotisations.cotisations[1]
	assert.Equal(t, int64(10000), c.Montant)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), c.DateEcheance)
}

func TestOuvrirPeriodeIdempotent(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	membres.add(activeMembre(120000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))

	created, _, err := s.OuvrirPeriode(6, 2025, tresorierRoles)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Reopening the same period creates nothing new
	created, skipped, err := s.OuvrirPeriode(6, 2025, tresorierRoles)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, skipped)
	assert.Len(t, cotisations.cotisations, 1)
}

func TestOuvrirPeriodeSkipsPreEnrollmentMonths(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	// Enrolled mid-March 2024: February is out, March and later are in
	membres.add(activeMembre(120000, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))

	created, skipped, err := s.OuvrirPeriode(2, 2024, tresorierRoles)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, skipped)

	created, _, err = s.OuvrirPeriode(3, 2024, tresorierRoles)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestOuvrirPeriodeValidation(t *testing.T) {
	s := newCotisationServiceForTest(newFakeMembreStore(), newFakeCotisationStore(), time.Now())

	_, _, err := s.OuvrirPeriode(6, 2025, []string{models.RoleMembre})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = s.OuvrirPeriode(13, 2025, tresorierRoles)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = s.OuvrirPeriode(0, 2025, tresorierRoles)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = s.OuvrirPeriode(6, 1999, tresorierRoles)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnregistrerPaiement(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	membres.add(activeMembre(120000, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	_, _, err := s.OuvrirPeriode(6, 2025, tresorierRoles)
	require.NoError(t, err)

	paid, err := s.EnregistrerPaiement(1, models.ModeMobileMoney, "MM-123", now, tresorierRoles)
	require.NoError(t, err)
	require.NotNil(t, paid.DatePaiement)
	assert.Equal(t, models.ModeMobileMoney, paid.ModePaiement)
	assert.Equal(t, "MM-123", paid.ReferencePaiement)

	// A second payment is refused and the original fields survive
	_, err = s.EnregistrerPaiement(1, models.ModeEspeces, "X", now.AddDate(0, 0, 1), tresorierRoles)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	c, _ := cotisations.GetCotisationByID(1)
	assert.Equal(t, "MM-123", c.ReferencePaiement)
	assert.True(t, c.DatePaiement.Equal(now))
}

func TestEnregistrerPaiementValidation(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Now()
	s := newCotisationServiceForTest(membres, cotisations, now)

	_, err := s.EnregistrerPaiement(1, models.ModeEspeces, "", now, []string{models.RoleMembre})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.EnregistrerPaiement(1, "cheque", "", now, tresorierRoles)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.EnregistrerPaiement(99, models.ModeEspeces, "", now, tresorierRoles)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatutMembre(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	// Member enrolled March 2024; checking at mid-December 2024
	now := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	m := membres.add(activeMembre(120000, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	// Open March through December: ten instances
	for mois := 3; mois <= 12; mois++ {
		_, _, err := s.OuvrirPeriode(mois, 2024, tresorierRoles)
		require.NoError(t, err)
	}

	// Pay March through September: seven months
	for id := int64(1); id <= 7; id++ {
		_, err := s.EnregistrerPaiement(id, models.ModeEspeces, "", now, tresorierRoles)
		require.NoError(t, err)
	}

	statut, err := s.StatutMembre(m.ID, 2024)
	require.NoError(t, err)

	assert.Equal(t, 10, statut.TotalMois)
	assert.Equal(t, 7, statut.MoisPayes)
	// October and November are past due; December's due date has passed too
	assert.Equal(t, 3, statut.MoisEnRetard)
	assert.Equal(t, 70, statut.PourcentagePaye)
	assert.False(t, statut.EstAJour)
	assert.Equal(t, int64(70000), statut.TotalPaye)
	assert.Equal(t, int64(100000), statut.TotalDu)
	assert.Equal(t, int64(30000), statut.TotalImpaye)
}

func TestStatutMembreAJour(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	m := membres.add(activeMembre(120000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, _, err := s.OuvrirPeriode(1, 2025, tresorierRoles)
	require.NoError(t, err)
	_, _, err = s.OuvrirPeriode(2, 2025, tresorierRoles)
	require.NoError(t, err)

	// January paid; February open but not yet due on the 1st
	_, err = s.EnregistrerPaiement(1, models.ModeVirement, "VIR-1", now, tresorierRoles)
	require.NoError(t, err)

	statut, err := s.StatutMembre(m.ID, 2025)
	require.NoError(t, err)
	assert.True(t, statut.EstAJour)
	assert.Equal(t, 1, statut.MoisPayes)
	assert.Equal(t, 0, statut.MoisEnRetard)
}

func TestStatutMembreInconnu(t *testing.T) {
	s := newCotisationServiceForTest(newFakeMembreStore(), newFakeCotisationStore(), time.Now())

	_, err := s.StatutMembre(42, 2025)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCotisationsComputesStatut(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	m := membres.add(activeMembre(120000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	_, _, err := s.OuvrirPeriode(6, 2025, tresorierRoles)
	require.NoError(t, err)
	_, _, err = s.OuvrirPeriode(7, 2025, tresorierRoles)
	require.NoError(t, err)

	details, pagination, err := s.ListCotisations(repository.CotisationFilter{MembreID: m.ID}, 1, 20)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, 2, pagination.Total)

	// June is 15 days past its due date of the 5th; July is not due yet
	assert.Equal(t, models.CotisationEnRetard, details[0].StatutReel)
	assert.Equal(t, 15, details[0].JoursRetard)
	assert.Equal(t, models.CotisationImpayee, details[1].StatutReel)
	assert.Equal(t, 0, details[1].JoursRetard)
}

func TestMembresEnRetardSansLimite(t *testing.T) {
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	s := newCotisationServiceForTest(membres, cotisations, now)

	m1 := membres.add(activeMembre(120000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	m2 := membres.add(activeMembre(240000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	// June is past due for both members by July 1st
	_, _, err := s.OuvrirPeriode(6, 2025, tresorierRoles)
	require.NoError(t, err)

	// Zero means every late member, not an empty page
	retards, err := s.MembresEnRetard(0)
	require.NoError(t, err)
	require.Len(t, retards, 2)
	ids := []int64{retards[0].MembreID, retards[1].MembreID}
	assert.ElementsMatch(t, []int64{m1.ID, m2.ID}, ids)

	retards, err = s.MembresEnRetard(1)
	require.NoError(t, err)
	require.Len(t, retards, 1)
	assert.Equal(t, m2.ID, retards[0].MembreID)
	assert.Equal(t, int64(20000), retards[0].MontantDu)
}
