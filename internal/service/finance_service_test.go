package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lescombis/internal/models"
)

func TestResumeFinancier(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	sinistres := newFakeSinistreStore()

	finance := NewFinanceService(cotisations, sinistres, membres)
	finance.now = func() time.Time { return now }
	dues := newCotisationServiceForTest(membres, cotisations, now)
	claims := NewSinistreService(sinistres, newFakeTypeSinistreStore(
		models.TypeSinistre{ID: 1, Nom: "Hospitalisation", MontantCouverture: 100000},
	), membres)
	claims.now = func() time.Time { return now }

	m := membres.add(activeMembre(120000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	// Six months billed, four paid: 40000 collected of 60000 expected
	for mois := 1; mois <= 6; mois++ {
		_, _, err := dues.OuvrirPeriode(mois, 2025, tresorierRoles)
		require.NoError(t, err)
	}
	for id := int64(1); id <= 4; id++ {
		_, err := dues.EnregistrerPaiement(id, models.ModeEspeces, "", now, tresorierRoles)
		require.NoError(t, err)
	}

	// One claim paid out at 25000, one approved at 10000 still owed
	created, err := claims.Declarer(m.ID, 1, now.AddDate(0, 0, -10), "Hospitalisation", nil)
	require.NoError(t, err)
	paye := int64(25000)
	_, err = claims.Decider(created.ID, DecisionInput{Decision: DecisionApprouver, MontantApprouve: &paye}, 9, tresorierRoles)
	require.NoError(t, err)
	_, err = claims.Payer(created.ID, tresorierRoles)
	require.NoError(t, err)

	created, err = claims.Declarer(m.ID, 1, now.AddDate(0, 0, -5), "Hospitalisation", nil)
	require.NoError(t, err)
	approuve := int64(10000)
	_, err = claims.Decider(created.ID, DecisionInput{Decision: DecisionApprouver, MontantApprouve: &approuve}, 9, tresorierRoles)
	require.NoError(t, err)

	resume, err := finance.ResumeFinancier(2025)
	require.NoError(t, err)

	assert.Equal(t, int64(40000), resume.MontantEncaisse)
	assert.Equal(t, int64(60000), resume.MontantAttenduCotisations)
	assert.Equal(t, int64(25000), resume.MontantPayeSinistres)
	assert.Equal(t, int64(10000), resume.MontantAPayerSinistres)
	assert.Equal(t, int64(15000), resume.SoldeActuel)
}

func TestComputeDashboard(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	membres := newFakeMembreStore()
	cotisations := newFakeCotisationStore()
	sinistres := newFakeSinistreStore()

	finance := NewFinanceService(cotisations, sinistres, membres)
	finance.now = func() time.Time { return now }
	dues := newCotisationServiceForTest(membres, cotisations, now)

	membres.add(activeMembre(120000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	inactif := activeMembre(120000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	inactif.Statut = models.StatutInactif
	membres.add(inactif)

	// One overdue month
	_, _, err := dues.OuvrirPeriode(5, 2025, tresorierRoles)
	require.NoError(t, err)

	d, err := finance.ComputeDashboard(2025)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Membres.Total)
	assert.Equal(t, 1, d.Membres.Actifs)
	assert.Equal(t, 1, d.Membres.Inactifs)
	require.NotNil(t, d.Financier)
	assert.Len(t, d.ParMois, 12)
	require.Len(t, d.MembresEnRetard, 1)
	assert.Equal(t, 1, d.MembresEnRetard[0].MoisEnRetard)
	assert.Equal(t, int64(10000), d.MembresEnRetard[0].MontantDu)
	require.NotNil(t, d.SinistresStats)
}
