package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lescombis/internal/database"
	"lescombis/internal/models"
)

// SinistreRepository handles database operations for claims. It is the only
// writer of a claim's status, approved amount and rejection reason.
type SinistreRepository struct {
	db *database.DB
}

// NewSinistreRepository creates a new claim repository
func NewSinistreRepository(db *database.DB) *SinistreRepository {
	return &SinistreRepository{db: db}
}

// CreateSinistre inserts a newly declared claim in en_attente state
func (r *SinistreRepository) CreateSinistre(s *models.Sinistre) (*models.Sinistre, error) {
	query := `
		INSERT INTO sinistres (membre_id, type_sinistre_id, date_sinistre, date_declaration, description, montant_demande, statut)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		s.MembreID, s.TypeSinistreID, s.DateSinistre, s.DateDeclaration,
		s.Description, s.MontantDemande, s.Statut)
	if err != nil {
		return nil, fmt.Errorf("failed to create sinistre: %w", err)
	}
	s.ID = id
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	return s, nil
}

const sinistreSelect = `
	SELECT s.id, s.membre_id, s.type_sinistre_id, s.date_sinistre, s.date_declaration,
	       s.description, s.montant_demande, s.montant_approuve, s.statut,
	       COALESCE(s.motif_rejet, ''), COALESCE(s.remarques, ''),
	       s.traite_par_id, s.date_traitement, s.date_paiement, s.created_at, s.updated_at,
	       m.nom_complet, t.nom, t.montant_couverture, t.necessite_validation
	FROM sinistres s
	JOIN membres m ON m.id = s.membre_id
	JOIN types_sinistres t ON t.id = s.type_sinistre_id`

func scanSinistreDetail(scanner interface{ Scan(...interface{}) error }, d *models.SinistreDetail) error {
	return scanner.Scan(
		&d.ID,
		&d.MembreID,
		&d.TypeSinistreID,
		&d.DateSinistre,
		&d.DateDeclaration,
		&d.Description,
		&d.MontantDemande,
		&d.MontantApprouve,
		&d.Statut,
		&d.MotifRejet,
		&d.Remarques,
		&d.TraiteParID,
		&d.DateTraitement,
		&d.DatePaiement,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.NomComplet,
		&d.TypeSinistreNom,
		&d.MontantCouverture,
		&d.NecessiteValidation,
	)
}

// GetSinistreByID retrieves a claim joined with member and type fields
func (r *SinistreRepository) GetSinistreByID(id int64) (*models.SinistreDetail, error) {
	d := &models.SinistreDetail{}
	err := scanSinistreDetail(r.db.QueryRow(sinistreSelect+" WHERE s.id = ?", id), d)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sinistre: %w", err)
	}
	return d, nil
}

// SinistreFilter narrows ListSinistres results; zero values mean "no filter"
type SinistreFilter struct {
	MembreID       int64
	TypeSinistreID int64
	Statut         string
	DateDebut      time.Time
	DateFin        time.Time
}

// ListSinistres retrieves a page of claims, most recently declared first
func (r *SinistreRepository) ListSinistres(f SinistreFilter, page, limit int) ([]models.SinistreDetail, int, error) {
	var conditions []string
	var args []interface{}

	if f.MembreID != 0 {
		conditions = append(conditions, "s.membre_id = ?")
		args = append(args, f.MembreID)
	}
	if f.TypeSinistreID != 0 {
		conditions = append(conditions, "s.type_sinistre_id = ?")
		args = append(args, f.TypeSinistreID)
	}
	if f.Statut != "" && f.Statut != "all" {
		conditions = append(conditions, "s.statut = ?")
		args = append(args, f.Statut)
	}
	if !f.DateDebut.IsZero() {
		conditions = append(conditions, "s.date_declaration >= ?")
		args = append(args, f.DateDebut)
	}
	if !f.DateFin.IsZero() {
		conditions = append(conditions, "s.date_declaration <= ?")
		args = append(args, f.DateFin)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM sinistres s
		JOIN membres m ON m.id = s.membre_id
		JOIN types_sinistres t ON t.id = s.type_sinistre_id` + where
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sinistres: %w", err)
	}

	query := sinistreSelect + where + `
		ORDER BY s.date_declaration DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sinistres: %w", err)
	}
	defer rows.Close()

	var details []models.SinistreDetail
	for rows.Next() {
		var d models.SinistreDetail
		if err := scanSinistreDetail(rows, &d); err != nil {
			return nil, 0, fmt.Errorf("failed to scan sinistre: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read sinistres: %w", err)
	}

	return details, total, nil
}

// Approve moves a pending claim to approuve. The statut guard in the WHERE
// clause serializes concurrent decisions: only one can match en_attente.
func (r *SinistreRepository) Approve(id, traiteParID int64, montantApprouve int64, remarques string, now time.Time) (bool, error) {
	query := `
		UPDATE sinistres
		SET statut = ?, montant_approuve = ?, remarques = ?, traite_par_id = ?, date_traitement = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND statut = ?
	`
	return r.transition(query, models.SinistreApprouve, montantApprouve, remarques, traiteParID, now, id, models.SinistreEnAttente)
}

// Reject moves a pending claim to rejete with the mandatory reason
func (r *SinistreRepository) Reject(id, traiteParID int64, motifRejet, remarques string, now time.Time) (bool, error) {
	query := `
		UPDATE sinistres
		SET statut = ?, motif_rejet = ?, remarques = ?, traite_par_id = ?, date_traitement = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND statut = ?
	`
	return r.transition(query, models.SinistreRejete, motifRejet, remarques, traiteParID, now, id, models.SinistreEnAttente)
}

// MarkPaid moves an approved claim to paye, recording the payout date
func (r *SinistreRepository) MarkPaid(id int64, now time.Time) (bool, error) {
	query := `
		UPDATE sinistres
		SET statut = ?, date_paiement = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND statut = ?
	`
	return r.transition(query, models.SinistrePaye, now, id, models.SinistreApprouve)
}

func (r *SinistreRepository) transition(query string, args ...interface{}) (bool, error) {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition sinistre: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read transition result: %w", err)
	}
	return rows > 0, nil
}

// Stats aggregates claim counters and amounts across all claims
func (r *SinistreRepository) Stats() (*models.StatsSinistres, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN statut = 'en_attente' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN statut = 'approuve' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN statut = 'rejete' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN statut = 'paye' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(montant_demande), 0),
		       COALESCE(SUM(CASE WHEN statut = 'paye' THEN montant_approuve ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN statut = 'approuve' THEN montant_approuve ELSE 0 END), 0)
		FROM sinistres
	`
	stats := &models.StatsSinistres{}
	err := r.db.QueryRow(query).Scan(
		&stats.TotalSinistres,
		&stats.EnAttente,
		&stats.Approuves,
		&stats.Rejetes,
		&stats.Payes,
		&stats.MontantDemande,
		&stats.MontantPaye,
		&stats.MontantAPayer,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sinistre stats: %w", err)
	}
	return stats, nil
}
