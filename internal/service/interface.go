package service

import (
	"time"

	"lescombis/internal/models"
	"lescombis/internal/repository"
)

// Storage interfaces consumed by the engines. The repository package
// provides the SQL implementations; tests substitute in-memory fakes.

// MembreStore is the member ledger's persistence
type MembreStore interface {
	CreateMembre(m *models.Membre) (*models.Membre, error)
	GetMembreByID(id int64) (*models.Membre, error)
	GetMembreByTelephone(telephone string) (*models.Membre, error)
	ListMembres(search, statut string, page, limit int) ([]models.Membre, int, error)
	ListMembresActifs() ([]models.Membre, error)
	UpdateMembre(m *models.Membre) error
	UpdateStatut(id int64, statut string) error
	UpdatePassword(id int64, passwordHash string) error
	CountByStatut() (map[string]int, error)
}

// CotisationStore is the dues engine's persistence
type CotisationStore interface {
	CreateCotisation(c *models.Cotisation) (*models.Cotisation, error)
	GetCotisationByID(id int64) (*models.Cotisation, error)
	ListCotisations(f repository.CotisationFilter, page, limit int) ([]models.CotisationDetail, int, error)
	ListByMembreAnnee(membreID int64, annee int) ([]models.Cotisation, error)
	RecordPayment(id int64, mode, reference string, datePaiement time.Time) (bool, error)
	ResumeAnnee(annee int, now time.Time) (*models.ResumeCotisations, error)
	ParMois(annee int) ([]models.MoisResume, error)
	ListMembresEnRetard(now time.Time, limit int) ([]models.MembreEnRetard, error)
}

// SinistreStore is the claims engine's persistence
type SinistreStore interface {
	CreateSinistre(s *models.Sinistre) (*models.Sinistre, error)
	GetSinistreByID(id int64) (*models.SinistreDetail, error)
	ListSinistres(f repository.SinistreFilter, page, limit int) ([]models.SinistreDetail, int, error)
	Approve(id, traiteParID int64, montantApprouve int64, remarques string, now time.Time) (bool, error)
	Reject(id, traiteParID int64, motifRejet, remarques string, now time.Time) (bool, error)
	MarkPaid(id int64, now time.Time) (bool, error)
	Stats() (*models.StatsSinistres, error)
}

// TypeSinistreStore reads claim-type reference data
type TypeSinistreStore interface {
	GetTypeByID(id int64) (*models.TypeSinistre, error)
	ListTypes() ([]models.TypeSinistre, error)
}
