package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lescombis/internal/models"
	"lescombis/internal/repository"
	"lescombis/internal/service"
)

type stubSinistreStore struct {
	lastFilter repository.SinistreFilter
}

func (s *stubSinistreStore) CreateSinistre(sin *models.Sinistre) (*models.Sinistre, error) {
	return sin, nil
}
func (s *stubSinistreStore) GetSinistreByID(int64) (*models.SinistreDetail, error) {
	return nil, nil
}
func (s *stubSinistreStore) ListSinistres(f repository.SinistreFilter, page, limit int) ([]models.SinistreDetail, int, error) {
	s.lastFilter = f
	return nil, 0, nil
}
func (s *stubSinistreStore) Approve(int64, int64, int64, string, time.Time) (bool, error) {
	return false, nil
}
func (s *stubSinistreStore) Reject(int64, int64, string, string, time.Time) (bool, error) {
	return false, nil
}
func (s *stubSinistreStore) MarkPaid(int64, time.Time) (bool, error) { return false, nil }
func (s *stubSinistreStore) Stats() (*models.StatsSinistres, error) {
	return &models.StatsSinistres{}, nil
}

type stubTypeSinistreStore struct{}

func (s *stubTypeSinistreStore) GetTypeByID(int64) (*models.TypeSinistre, error) { return nil, nil }
func (s *stubTypeSinistreStore) ListTypes() ([]models.TypeSinistre, error)       { return nil, nil }

func newSinistreHandlerForTest() (*SinistreHandler, *stubSinistreStore) {
	store := &stubSinistreStore{}
	h := NewSinistreHandler(service.NewSinistreService(store, &stubTypeSinistreStore{}, &stubMembreStore{}))
	return h, store
}

func TestListSinistresParDates(t *testing.T) {
	handler, store := newSinistreHandlerForTest()
	tresorier := &models.Membre{ID: 1, Roles: []string{models.RoleMembre, models.RoleTresorier}}

	w := httptest.NewRecorder()
	handler.List(w, requestAs(http.MethodGet, "/api/sinistres?date_debut=2025-05-01&date_fin=2025-05-31", tresorier))
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, store.lastFilter.DateDebut.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
	// The whole closing day counts
	assert.True(t, store.lastFilter.DateFin.Equal(time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)))
}

func TestListSinistresDateInvalide(t *testing.T) {
	handler, _ := newSinistreHandlerForTest()
	tresorier := &models.Membre{ID: 1, Roles: []string{models.RoleMembre, models.RoleTresorier}}

	w := httptest.NewRecorder()
	handler.List(w, requestAs(http.MethodGet, "/api/sinistres?date_debut=mai-2025", tresorier))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSinistresVisibilite(t *testing.T) {
	handler, store := newSinistreHandlerForTest()

	membre := &models.Membre{ID: 7, Roles: []string{models.RoleMembre}}
	w := httptest.NewRecorder()
	handler.List(w, requestAs(http.MethodGet, "/api/sinistres?membre_id=3", membre))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), store.lastFilter.MembreID)
}
