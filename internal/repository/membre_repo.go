package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lescombis/internal/database"
	"lescombis/internal/models"
)

// MembreRepository handles database operations for members and their roles
type MembreRepository struct {
	db *database.DB
}

// NewMembreRepository creates a new member repository
func NewMembreRepository(db *database.DB) *MembreRepository {
	return &MembreRepository{db: db}
}

// CreateMembre inserts a new member and their roles in one transaction
func (r *MembreRepository) CreateMembre(m *models.Membre) (*models.Membre, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO membres (nom_complet, telephone_1, telephone_2, email, profession, cotisation_annuelle, date_adhesion, statut, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(query,
		m.NomComplet, m.Telephone1, m.Telephone2, m.Email, m.Profession,
		m.CotisationAnnuelle, m.DateAdhesion, m.Statut, m.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	if err := replaceRoles(tx, id, m.Roles); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit member creation: %w", err)
	}

	m.ID = id
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt

	return m, nil
}

// GetMembreByID retrieves a member by ID, roles included
func (r *MembreRepository) GetMembreByID(id int64) (*models.Membre, error) {
	return r.getMembre("id = ?", id)
}

// GetMembreByTelephone retrieves a member by their primary phone number
func (r *MembreRepository) GetMembreByTelephone(telephone string) (*models.Membre, error) {
	return r.getMembre("telephone_1 = ?", telephone)
}

func (r *MembreRepository) getMembre(where string, arg interface{}) (*models.Membre, error) {
	query := `
		SELECT id, nom_complet, telephone_1, COALESCE(telephone_2, ''), COALESCE(email, ''), COALESCE(profession, ''),
		       cotisation_annuelle, date_adhesion, statut, password_hash, created_at, updated_at
		FROM membres
		WHERE ` + where
	m := &models.Membre{}
	err := r.db.QueryRow(query, arg).Scan(
		&m.ID,
		&m.NomComplet,
		&m.Telephone1,
		&m.Telephone2,
		&m.Email,
		&m.Profession,
		&m.CotisationAnnuelle,
		&m.DateAdhesion,
		&m.Statut,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	roles, err := r.getRoles(m.ID)
	if err != nil {
		return nil, err
	}
	m.Roles = roles

	return m, nil
}

// ListMembres retrieves a page of members with optional search and status
// filter. Search matches name, phone and profession.
func (r *MembreRepository) ListMembres(search, statut string, page, limit int) ([]models.Membre, int, error) {
	var conditions []string
	var args []interface{}

	if search != "" {
		conditions = append(conditions, "(nom_complet LIKE ? OR telephone_1 LIKE ? OR profession LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if statut != "" && statut != "all" {
		conditions = append(conditions, "statut = ?")
		args = append(args, statut)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM membres"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `
		SELECT id, nom_complet, telephone_1, COALESCE(telephone_2, ''), COALESCE(email, ''), COALESCE(profession, ''),
		       cotisation_annuelle, date_adhesion, statut, password_hash, created_at, updated_at
		FROM membres` + where + `
		ORDER BY nom_complet ASC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var membres []models.Membre
	for rows.Next() {
		var m models.Membre
		if err := rows.Scan(
			&m.ID,
			&m.NomComplet,
			&m.Telephone1,
			&m.Telephone2,
			&m.Email,
			&m.Profession,
			&m.CotisationAnnuelle,
			&m.DateAdhesion,
			&m.Statut,
			&m.PasswordHash,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		membres = append(membres, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read members: %w", err)
	}

	for i := range membres {
		roles, err := r.getRoles(membres[i].ID)
		if err != nil {
			return nil, 0, err
		}
		membres[i].Roles = roles
	}

	return membres, total, nil
}

// ListMembresActifs retrieves all active members, used when opening a
// billing period
func (r *MembreRepository) ListMembresActifs() ([]models.Membre, error) {
	membres, _, err := r.ListMembres("", models.StatutActif, 1, 100000)
	return membres, err
}

// UpdateMembre updates a member's profile fields and role set in one
// transaction
func (r *MembreRepository) UpdateMembre(m *models.Membre) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE membres
		SET nom_complet = ?, telephone_1 = ?, telephone_2 = ?, email = ?, profession = ?,
		    cotisation_annuelle = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err = tx.Exec(query, m.NomComplet, m.Telephone1, m.Telephone2, m.Email, m.Profession, m.CotisationAnnuelle, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if err := replaceRoles(tx, m.ID, m.Roles); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateStatut changes a member's status
func (r *MembreRepository) UpdateStatut(id int64, statut string) error {
	query := "UPDATE membres SET statut = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := r.db.Exec(query, statut, id)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read status update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces a member's password hash
func (r *MembreRepository) UpdatePassword(id int64, passwordHash string) error {
	query := "UPDATE membres SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// replaceRoles rewrites a member's role set using the given executor,
// so callers can run it inside a transaction
func replaceRoles(tx database.DBTX, membreID int64, roles []string) error {
	if _, err := tx.Exec("DELETE FROM membre_roles WHERE membre_id = ?", membreID); err != nil {
		return fmt.Errorf("failed to clear roles: %w", err)
	}
	for _, role := range roles {
		if _, err := tx.Exec("INSERT INTO membre_roles (membre_id, role) VALUES (?, ?)", membreID, role); err != nil {
			return fmt.Errorf("failed to insert role: %w", err)
		}
	}
	return nil
}

func (r *MembreRepository) getRoles(membreID int64) ([]string, error) {
	rows, err := r.db.Query("SELECT role FROM membre_roles WHERE membre_id = ? ORDER BY role", membreID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roles: %w", err)
	}
	return roles, nil
}

// CountByStatut returns the number of members per status
func (r *MembreRepository) CountByStatut() (map[string]int, error) {
	rows, err := r.db.Query("SELECT statut, COUNT(*) FROM membres GROUP BY statut")
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var statut string
		var count int
		if err := rows.Scan(&statut, &count); err != nil {
			return nil, fmt.Errorf("failed to scan member count: %w", err)
		}
		counts[statut] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read member counts: %w", err)
	}
	return counts, nil
}
