package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lescombis/internal/database"
	"lescombis/internal/models"
)

// CotisationRepository handles database operations for dues instances.
// It is the only writer of payment fields.
type CotisationRepository struct {
	db *database.DB
}

// NewCotisationRepository creates a new dues repository
func NewCotisationRepository(db *database.DB) *CotisationRepository {
	return &CotisationRepository{db: db}
}

// CreateCotisation inserts one dues instance. Returns ErrDuplicate when the
// (membre, mois, annee) key already exists.
func (r *CotisationRepository) CreateCotisation(c *models.Cotisation) (*models.Cotisation, error) {
	query := `
		INSERT INTO cotisations (membre_id, mois, annee, montant, date_echeance)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, c.MembreID, c.Mois, c.Annee, c.Montant, c.DateEcheance)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create cotisation: %w", err)
	}
	c.ID = id
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	return c, nil
}

const cotisationColumns = `
	id, membre_id, mois, annee, montant, date_echeance, date_paiement,
	COALESCE(mode_paiement, ''), COALESCE(reference_paiement, ''), created_at, updated_at`

func scanCotisation(scanner interface{ Scan(...interface{}) error }, c *models.Cotisation) error {
	return scanner.Scan(
		&c.ID,
		&c.MembreID,
		&c.Mois,
		&c.Annee,
		&c.Montant,
		&c.DateEcheance,
		&c.DatePaiement,
		&c.ModePaiement,
		&c.ReferencePaiement,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// GetCotisationByID retrieves a dues instance by ID
func (r *CotisationRepository) GetCotisationByID(id int64) (*models.Cotisation, error) {
	query := "SELECT " + cotisationColumns + " FROM cotisations WHERE id = ?"
	c := &models.Cotisation{}
	err := scanCotisation(r.db.QueryRow(query, id), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cotisation: %w", err)
	}
	return c, nil
}

// CotisationFilter narrows ListCotisations results. Zero values mean "no
// filter". Statut filtering needs the caller's notion of now because
// late-vs-unpaid depends on it.
type CotisationFilter struct {
	MembreID int64
	Annee    int
	Mois     int
	Statut   string
	Search   string
	Now      time.Time
}

// ListCotisations retrieves a page of dues instances joined with member
// display fields
func (r *CotisationRepository) ListCotisations(f CotisationFilter, page, limit int) ([]models.CotisationDetail, int, error) {
	var conditions []string
	var args []interface{}

	if f.MembreID != 0 {
		conditions = append(conditions, "c.membre_id = ?")
		args = append(args, f.MembreID)
	}
	if f.Annee != 0 {
		conditions = append(conditions, "c.annee = ?")
		args = append(args, f.Annee)
	}
	if f.Mois != 0 {
		conditions = append(conditions, "c.mois = ?")
		args = append(args, f.Mois)
	}
	if f.Search != "" {
		conditions = append(conditions, "m.nom_complet LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}
	switch f.Statut {
	case models.CotisationPayee:
		conditions = append(conditions, "c.date_paiement IS NOT NULL")
	case models.CotisationImpayee:
		conditions = append(conditions, "c.date_paiement IS NULL AND c.date_echeance >= ?")
		args = append(args, f.Now)
	case models.CotisationEnRetard:
		conditions = append(conditions, "c.date_paiement IS NULL AND c.date_echeance < ?")
		args = append(args, f.Now)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM cotisations c JOIN membres m ON m.id = c.membre_id" + where
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cotisations: %w", err)
	}

	query := `
		SELECT c.id, c.membre_id, c.mois, c.annee, c.montant, c.date_echeance, c.date_paiement,
		       COALESCE(c.mode_paiement, ''), COALESCE(c.reference_paiement, ''), c.created_at, c.updated_at,
		       m.nom_complet, m.telephone_1
		FROM cotisations c
		JOIN membres m ON m.id = c.membre_id` + where + `
		ORDER BY c.annee DESC, c.mois DESC, m.nom_complet ASC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query cotisations: %w", err)
	}
	defer rows.Close()

	var details []models.CotisationDetail
	for rows.Next() {
		var d models.CotisationDetail
		if err := rows.Scan(
			&d.ID,
			&d.MembreID,
			&d.Mois,
			&d.Annee,
			&d.Montant,
			&d.DateEcheance,
			&d.DatePaiement,
			&d.ModePaiement,
			&d.ReferencePaiement,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.NomComplet,
			&d.Telephone1,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan cotisation: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read cotisations: %w", err)
	}

	return details, total, nil
}

// ListByMembreAnnee retrieves all of one member's dues instances for a year,
// ordered by month
func (r *CotisationRepository) ListByMembreAnnee(membreID int64, annee int) ([]models.Cotisation, error) {
	query := "SELECT " + cotisationColumns + " FROM cotisations WHERE membre_id = ? AND annee = ? ORDER BY mois ASC"
	rows, err := r.db.Query(query, membreID, annee)
	if err != nil {
		return nil, fmt.Errorf("failed to query member cotisations: %w", err)
	}
	defer rows.Close()

	var cotisations []models.Cotisation
	for rows.Next() {
		var c models.Cotisation
		if err := scanCotisation(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan cotisation: %w", err)
		}
		cotisations = append(cotisations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read member cotisations: %w", err)
	}
	return cotisations, nil
}

// RecordPayment sets the payment fields of an unpaid dues instance. The
// WHERE clause doubles as the per-record serialization guard: of two
// concurrent calls only one can match the NULL payment date, so the loser
// reports no update and the caller maps that to AlreadyPaid.
func (r *CotisationRepository) RecordPayment(id int64, mode, reference string, datePaiement time.Time) (bool, error) {
	query := `
		UPDATE cotisations
		SET date_paiement = ?, mode_paiement = ?, reference_paiement = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND date_paiement IS NULL
	`
	result, err := r.db.Exec(query, datePaiement, mode, reference, id)
	if err != nil {
		return false, fmt.Errorf("failed to record payment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read payment result: %w", err)
	}
	return rows > 0, nil
}

// ResumeAnnee aggregates the year's dues counters. Late-vs-unpaid is
// decided against now, recomputed on every call.
func (r *CotisationRepository) ResumeAnnee(annee int, now time.Time) (*models.ResumeCotisations, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(date_paiement),
		       COALESCE(SUM(CASE WHEN date_paiement IS NOT NULL THEN montant ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN date_paiement IS NULL THEN montant ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN date_paiement IS NULL AND date_echeance < ? THEN 1 ELSE 0 END), 0)
		FROM cotisations
		WHERE annee = ?
	`
	resume := &models.ResumeCotisations{}
	err := r.db.QueryRow(query, now, annee).Scan(
		&resume.TotalCotisations,
		&resume.CotisationsPayees,
		&resume.MontantEncaisse,
		&resume.MontantAttendu,
		&resume.CotisationsEnRetard,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dues resume: %w", err)
	}
	resume.CotisationsImpayees = resume.TotalCotisations - resume.CotisationsPayees
	return resume, nil
}

// ParMois aggregates one row per month 1..12 for the monthly evolution
// view. Months with no dues instances still get a zero row.
func (r *CotisationRepository) ParMois(annee int) ([]models.MoisResume, error) {
	query := `
		SELECT mois,
		       COUNT(*),
		       COUNT(date_paiement),
		       COALESCE(SUM(CASE WHEN date_paiement IS NOT NULL THEN montant ELSE 0 END), 0),
		       COALESCE(SUM(montant), 0)
		FROM cotisations
		WHERE annee = ?
		GROUP BY mois
	`
	rows, err := r.db.Query(query, annee)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly resume: %w", err)
	}
	defer rows.Close()

	byMois := make(map[int]models.MoisResume)
	for rows.Next() {
		var m models.MoisResume
		if err := rows.Scan(&m.Mois, &m.Total, &m.Payes, &m.MontantEncaisse, &m.MontantAttendu); err != nil {
			return nil, fmt.Errorf("failed to scan monthly resume: %w", err)
		}
		byMois[m.Mois] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read monthly resume: %w", err)
	}

	result := make([]models.MoisResume, 0, 12)
	for mois := 1; mois <= 12; mois++ {
		m := byMois[mois]
		m.Mois = mois
		m.NomMois = models.NomMois(mois)
		result = append(result, m)
	}
	return result, nil
}

// ListMembresEnRetard returns members holding at least one overdue unpaid
// dues instance, with the overdue count and amount, most indebted first.
// A limit of zero or less means no limit.
func (r *CotisationRepository) ListMembresEnRetard(now time.Time, limit int) ([]models.MembreEnRetard, error) {
	query := `
		SELECT m.id, m.nom_complet, m.telephone_1, COALESCE(m.email, ''),
		       COUNT(*), COALESCE(SUM(c.montant), 0)
		FROM cotisations c
		JOIN membres m ON m.id = c.membre_id
		WHERE c.date_paiement IS NULL AND c.date_echeance < ?
		GROUP BY m.id, m.nom_complet, m.telephone_1, m.email
		ORDER BY SUM(c.montant) DESC
	`
	args := []interface{}{now}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query late members: %w", err)
	}
	defer rows.Close()

	var membres []models.MembreEnRetard
	for rows.Next() {
		var m models.MembreEnRetard
		if err := rows.Scan(&m.MembreID, &m.NomComplet, &m.Telephone1, &m.Email, &m.MoisEnRetard, &m.MontantDu); err != nil {
			return nil, fmt.Errorf("failed to scan late member: %w", err)
		}
		membres = append(membres, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read late members: %w", err)
	}
	return membres, nil
}
