package service

import (
	"sort"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
)

// In-memory store fakes backing the engine tests.

type fakeMembreStore struct {
	membres map[int64]*models.Membre
	nextID  int64
}

func newFakeMembreStore() *fakeMembreStore {
	return &fakeMembreStore{membres: make(map[int64]*models.Membre), nextID: 1}
}

func (f *fakeMembreStore) add(m models.Membre) *models.Membre {
	m.ID = f.nextID
	f.nextID++
	f.membres[m.ID] = &m
	return &m
}

func (f *fakeMembreStore) CreateMembre(m *models.Membre) (*models.Membre, error) {
	for _, existing := range f.membres {
		if existing.Telephone1 == m.Telephone1 {
			return nil, repository.ErrDuplicate
		}
	}
	return f.add(*m), nil
}

func (f *fakeMembreStore) GetMembreByID(id int64) (*models.Membre, error) {
	m, ok := f.membres[id]
	if !ok {
		return nil, nil
	}
	copy := *m
	return &copy, nil
}

func (f *fakeMembreStore) GetMembreByTelephone(telephone string) (*models.Membre, error) {
	for _, m := range f.membres {
		if m.Telephone1 == telephone {
			copy := *m
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeMembreStore) ListMembres(search, statut string, page, limit int) ([]models.Membre, int, error) {
	var out []models.Membre
	for _, m := range f.membres {
		if statut != "" && m.Statut != statut {
			continue
		}
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeMembreStore) ListMembresActifs() ([]models.Membre, error) {
	var out []models.Membre
	for id := int64(1); id < f.nextID; id++ {
		if m, ok := f.membres[id]; ok && m.Statut == models.StatutActif {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembreStore) UpdateMembre(m *models.Membre) error {
	if _, ok := f.membres[m.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *m
	f.membres[m.ID] = &copy
	return nil
}

func (f *fakeMembreStore) UpdateStatut(id int64, statut string) error {
	m, ok := f.membres[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Statut = statut
	return nil
}

func (f *fakeMembreStore) UpdatePassword(id int64, passwordHash string) error {
	m, ok := f.membres[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.PasswordHash = passwordHash
	return nil
}

func (f *fakeMembreStore) CountByStatut() (map[string]int, error) {
	counts := make(map[string]int)
	for _, m := range f.membres {
		counts[m.Statut]++
	}
	return counts, nil
}

type fakeCotisationStore struct {
	cotisations map[int64]*models.Cotisation
	nextID      int64
}

func newFakeCotisationStore() *fakeCotisationStore {
	return &fakeCotisationStore{cotisations: make(map[int64]*models.Cotisation), nextID: 1}
}

func (f *fakeCotisationStore) CreateCotisation(c *models.Cotisation) (*models.Cotisation, error) {
	for _, existing := range f.cotisations {
		if existing.MembreID == c.MembreID && existing.Mois == c.Mois && existing.Annee == c.Annee {
			return nil, repository.ErrDuplicate
		}
	}
	copy := *c
	copy.ID = f.nextID
	f.nextID++
	f.cotisations[copy.ID] = &copy
	result := copy
	return &result, nil
}

func (f *fakeCotisationStore) GetCotisationByID(id int64) (*models.Cotisation, error) {
	c, ok := f.cotisations[id]
	if !ok {
		return nil, nil
	}
	copy := *c
	return &copy, nil
}

func (f *fakeCotisationStore) ListCotisations(filter repository.CotisationFilter, page, limit int) ([]models.CotisationDetail, int, error) {
	var out []models.CotisationDetail
	for id := int64(1); id < f.nextID; id++ {
		c, ok := f.cotisations[id]
		if !ok {
			continue
		}
		if filter.MembreID != 0 && c.MembreID != filter.MembreID {
			continue
		}
		if filter.Annee != 0 && c.Annee != filter.Annee {
			continue
		}
		out = append(out, models.CotisationDetail{Cotisation: *c})
	}
	return out, len(out), nil
}

func (f *fakeCotisationStore) ListByMembreAnnee(membreID int64, annee int) ([]models.Cotisation, error) {
	var out []models.Cotisation
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.cotisations[id]; ok && c.MembreID == membreID && c.Annee == annee {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCotisationStore) RecordPayment(id int64, mode, reference string, datePaiement time.Time) (bool, error) {
	c, ok := f.cotisations[id]
	if !ok || c.DatePaiement != nil {
		return false, nil
	}
	d := datePaiement
	c.DatePaiement = &d
	c.ModePaiement = mode
	c.ReferencePaiement = reference
	return true, nil
}

func (f *fakeCotisationStore) ResumeAnnee(annee int, now time.Time) (*models.ResumeCotisations, error) {
	resume := &models.ResumeCotisations{}
	for _, c := range f.cotisations {
		if c.Annee != annee {
			continue
		}
		resume.TotalCotisations++
		resume.MontantAttendu += c.Montant
		switch c.StatutAsOf(now) {
		case models.CotisationPayee:
			resume.CotisationsPayees++
			resume.MontantEncaisse += c.Montant
		case models.CotisationEnRetard:
			resume.CotisationsEnRetard++
		default:
			resume.CotisationsImpayees++
		}
	}
	return resume, nil
}

func (f *fakeCotisationStore) ParMois(annee int) ([]models.MoisResume, error) {
	out := make([]models.MoisResume, 12)
	for i := range out {
		out[i] = models.MoisResume{Mois: i + 1, NomMois: models.NomMois(i + 1)}
	}
	for _, c := range f.cotisations {
		if c.Annee != annee {
			continue
		}
		m := &out[c.Mois-1]
		m.Total++
		m.MontantAttendu += c.Montant
		if c.EstPayee() {
			m.Payes++
			m.MontantEncaisse += c.Montant
		}
	}
	return out, nil
}

func (f *fakeCotisationStore) ListMembresEnRetard(now time.Time, limit int) ([]models.MembreEnRetard, error) {
	byMembre := make(map[int64]*models.MembreEnRetard)
	for _, c := range f.cotisations {
		if c.StatutAsOf(now) != models.CotisationEnRetard {
			continue
		}
		r, ok := byMembre[c.MembreID]
		if !ok {
			r = &models.MembreEnRetard{MembreID: c.MembreID}
			byMembre[c.MembreID] = r
		}
		r.MoisEnRetard++
		r.MontantDu += c.Montant
	}
	var out []models.MembreEnRetard
	for _, r := range byMembre {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MontantDu > out[j].MontantDu })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSinistreStore struct {
	sinistres map[int64]*models.SinistreDetail
	nextID    int64
}

func newFakeSinistreStore() *fakeSinistreStore {
	return &fakeSinistreStore{sinistres: make(map[int64]*models.SinistreDetail), nextID: 1}
}

func (f *fakeSinistreStore) CreateSinistre(s *models.Sinistre) (*models.Sinistre, error) {
	copy := *s
	copy.ID = f.nextID
	f.nextID++
	f.sinistres[copy.ID] = &models.SinistreDetail{Sinistre: copy}
	result := copy
	return &result, nil
}

// setValidation flags the stored claim's type as requiring manual validation
func (f *fakeSinistreStore) setValidation(id int64, required bool) {
	if d, ok := f.sinistres[id]; ok {
		d.NecessiteValidation = required
	}
}

func (f *fakeSinistreStore) GetSinistreByID(id int64) (*models.SinistreDetail, error) {
	d, ok := f.sinistres[id]
	if !ok {
		return nil, nil
	}
	copy := *d
	return &copy, nil
}

func (f *fakeSinistreStore) ListSinistres(filter repository.SinistreFilter, page, limit int) ([]models.SinistreDetail, int, error) {
	var out []models.SinistreDetail
	for id := int64(1); id < f.nextID; id++ {
		d, ok := f.sinistres[id]
		if !ok {
			continue
		}
		if filter.MembreID != 0 && d.MembreID != filter.MembreID {
			continue
		}
		if filter.Statut != "" && d.Statut != filter.Statut {
			continue
		}
		if !filter.DateDebut.IsZero() && d.DateDeclaration.Before(filter.DateDebut) {
			continue
		}
		if !filter.DateFin.IsZero() && d.DateDeclaration.After(filter.DateFin) {
			continue
		}
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (f *fakeSinistreStore) Approve(id, traiteParID int64, montantApprouve int64, remarques string, now time.Time) (bool, error) {
	d, ok := f.sinistres[id]
	if !ok || d.Statut != models.SinistreEnAttente {
		return false, nil
	}
	d.Statut = models.SinistreApprouve
	d.MontantApprouve = &montantApprouve
	d.Remarques = remarques
	d.TraiteParID = &traiteParID
	t := now
	d.DateTraitement = &t
	return true, nil
}

func (f *fakeSinistreStore) Reject(id, traiteParID int64, motifRejet, remarques string, now time.Time) (bool, error) {
	d, ok := f.sinistres[id]
	if !ok || d.Statut != models.SinistreEnAttente {
		return false, nil
	}
	d.Statut = models.SinistreRejete
	d.MotifRejet = motifRejet
	d.Remarques = remarques
	d.TraiteParID = &traiteParID
	t := now
	d.DateTraitement = &t
	return true, nil
}

func (f *fakeSinistreStore) MarkPaid(id int64, now time.Time) (bool, error) {
	d, ok := f.sinistres[id]
	if !ok || d.Statut != models.SinistreApprouve {
		return false, nil
	}
	d.Statut = models.SinistrePaye
	t := now
	d.DatePaiement = &t
	return true, nil
}

func (f *fakeSinistreStore) Stats() (*models.StatsSinistres, error) {
	stats := &models.StatsSinistres{}
	for _, d := range f.sinistres {
		stats.TotalSinistres++
		stats.MontantDemande += d.MontantDemande
		switch d.Statut {
		case models.SinistreEnAttente:
			stats.EnAttente++
		case models.SinistreApprouve:
			stats.Approuves++
			if d.MontantApprouve != nil {
				stats.MontantAPayer += *d.MontantApprouve
			}
		case models.SinistreRejete:
			stats.Rejetes++
		case models.SinistrePaye:
			stats.Payes++
			if d.MontantApprouve != nil {
				stats.MontantPaye += *d.MontantApprouve
			}
		}
	}
	return stats, nil
}

type fakeTypeSinistreStore struct {
	types map[int64]*models.TypeSinistre
}

func newFakeTypeSinistreStore(types ...models.TypeSinistre) *fakeTypeSinistreStore {
	f := &fakeTypeSinistreStore{types: make(map[int64]*models.TypeSinistre)}
	for i := range types {
		t := types[i]
		f.types[t.ID] = &t
	}
	return f
}

func (f *fakeTypeSinistreStore) GetTypeByID(id int64) (*models.TypeSinistre, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, nil
	}
	copy := *t
	return &copy, nil
}

func (f *fakeTypeSinistreStore) ListTypes() ([]models.TypeSinistre, error) {
	var out []models.TypeSinistre
	for _, t := range f.types {
		out = append(out, *t)
	}
	return out, nil
}
