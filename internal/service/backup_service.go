package service

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"lescombis/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version        string               `json:"version"`
	ExportedAt     time.Time            `json:"exported_at"`
	Membres        []MembreBackup       `json:"membres"`
	TypesSinistres []TypeSinistreBackup `json:"types_sinistres"`
	Cotisations    []CotisationBackup   `json:"cotisations"`
	Sinistres      []SinistreBackup     `json:"sinistres"`
}

// MembreBackup represents a member record for backup
type MembreBackup struct {
	ID                 int64     `json:"id"`
	NomComplet         string    `json:"nom_complet"`
	Telephone1         string    `json:"telephone_1"`
	Telephone2         string    `json:"telephone_2"`
	Email              string    `json:"email"`
	Profession         string    `json:"profession"`
	CotisationAnnuelle int64     `json:"cotisation_annuelle"`
	DateAdhesion       time.Time `json:"date_adhesion"`
	Statut             string    `json:"statut"`
	PasswordHash       string    `json:"password_hash"`
	Roles              []string  `json:"roles"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TypeSinistreBackup represents a claim type record for backup
type TypeSinistreBackup struct {
	ID                  int64  `json:"id"`
	Nom                 string `json:"nom"`
	MontantCouverture   int64  `json:"montant_couverture"`
	NecessiteValidation bool   `json:"necessite_validation"`
}

// CotisationBackup represents a dues record for backup
type CotisationBackup struct {
	ID                int64      `json:"id"`
	MembreID          int64      `json:"membre_id"`
	Mois              int        `json:"mois"`
	Annee             int        `json:"annee"`
	Montant           int64      `json:"montant"`
	DateEcheance      time.Time  `json:"date_echeance"`
	DatePaiement      *time.Time `json:"date_paiement"`
	ModePaiement      string     `json:"mode_paiement"`
	ReferencePaiement string     `json:"reference_paiement"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SinistreBackup represents a claim record for backup
type SinistreBackup struct {
	ID              int64      `json:"id"`
	MembreID        int64      `json:"membre_id"`
	TypeSinistreID  int64      `json:"type_sinistre_id"`
	DateSinistre    time.Time  `json:"date_sinistre"`
	DateDeclaration time.Time  `json:"date_declaration"`
	Description     string     `json:"description"`
	MontantDemande  int64      `json:"montant_demande"`
	MontantApprouve *int64     `json:"montant_approuve"`
	Statut          string     `json:"statut"`
	MotifRejet      string     `json:"motif_rejet"`
	Remarques       string     `json:"remarques"`
	TraiteParID     *int64     `json:"traite_par_id"`
	DateTraitement  *time.Time `json:"date_traitement"`
	DatePaiement    *time.Time `json:"date_paiement"`
	CreatedAt       time.Time  `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportMembres(backup); err != nil {
		return fmt.Errorf("failed to export membres: %w", err)
	}
	if err := s.exportTypesSinistres(backup); err != nil {
		return fmt.Errorf("failed to export types sinistres: %w", err)
	}
	if err := s.exportCotisations(backup); err != nil {
		return fmt.Errorf("failed to export cotisations: %w", err)
	}
	if err := s.exportSinistres(backup); err != nil {
		return fmt.Errorf("failed to export sinistres: %w", err)
	}

	log.Printf("Exported: %d membres, %d types, %d cotisations, %d sinistres",
		len(backup.Membres), len(backup.TypesSinistres),
		len(backup.Cotisations), len(backup.Sinistres))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// The whole restore runs in one transaction so a failed import
	// leaves the database untouched
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Import in order of dependencies
	if err := s.importMembres(tx, backup.Membres); err != nil {
		return fmt.Errorf("failed to import membres: %w", err)
	}
	if err := s.importTypesSinistres(tx, backup.TypesSinistres); err != nil {
		return fmt.Errorf("failed to import types sinistres: %w", err)
	}
	if err := s.importCotisations(tx, backup.Cotisations); err != nil {
		return fmt.Errorf("failed to import cotisations: %w", err)
	}
	if err := s.importSinistres(tx, backup.Sinistres); err != nil {
		return fmt.Errorf("failed to import sinistres: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportMembres(backup *BackupData) error {
	query := `SELECT id, nom_complet, telephone_1, COALESCE(telephone_2, ''), COALESCE(email, ''),
		COALESCE(profession, ''), cotisation_annuelle, date_adhesion, statut, password_hash,
		created_at, updated_at FROM membres ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MembreBackup
		if err := rows.Scan(&m.ID, &m.NomComplet, &m.Telephone1, &m.Telephone2, &m.Email,
			&m.Profession, &m.CotisationAnnuelle, &m.DateAdhesion, &m.Statut, &m.PasswordHash,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return err
		}

		roleRows, err := s.db.Query("SELECT role FROM membre_roles WHERE membre_id = ? ORDER BY role", m.ID)
		if err != nil {
			return err
		}
		for roleRows.Next() {
			var role string
			if err := roleRows.Scan(&role); err != nil {
				roleRows.Close()
				return err
			}
			m.Roles = append(m.Roles, role)
		}
		if err := roleRows.Err(); err != nil {
			roleRows.Close()
			return err
		}
		roleRows.Close()

		backup.Membres = append(backup.Membres, m)
	}
	return rows.Err()
}

func (s *BackupService) exportTypesSinistres(backup *BackupData) error {
	query := "SELECT id, nom, montant_couverture, necessite_validation FROM types_sinistres ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t TypeSinistreBackup
		if err := rows.Scan(&t.ID, &t.Nom, &t.MontantCouverture, &t.NecessiteValidation); err != nil {
			return err
		}
		backup.TypesSinistres = append(backup.TypesSinistres, t)
	}
	return rows.Err()
}

func (s *BackupService) exportCotisations(backup *BackupData) error {
	query := `SELECT id, membre_id, mois, annee, montant, date_echeance, date_paiement,
		COALESCE(mode_paiement, ''), COALESCE(reference_paiement, ''), created_at
		FROM cotisations ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CotisationBackup
		var datePaiement sql.NullTime
		if err := rows.Scan(&c.ID, &c.MembreID, &c.Mois, &c.Annee, &c.Montant, &c.DateEcheance,
			&datePaiement, &c.ModePaiement, &c.ReferencePaiement, &c.CreatedAt); err != nil {
			return err
		}
		if datePaiement.Valid {
			c.DatePaiement = &datePaiement.Time
		}
		backup.Cotisations = append(backup.Cotisations, c)
	}
	return rows.Err()
}

func (s *BackupService) exportSinistres(backup *BackupData) error {
	query := `SELECT id, membre_id, type_sinistre_id, date_sinistre, date_declaration, description,
		montant_demande, montant_approuve, statut, COALESCE(motif_rejet, ''), COALESCE(remarques, ''),
		traite_par_id, date_traitement, date_paiement, created_at FROM sinistres ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sb SinistreBackup
		var montantApprouve, traiteParID sql.NullInt64
		var dateTraitement, datePaiement sql.NullTime
		if err := rows.Scan(&sb.ID, &sb.MembreID, &sb.TypeSinistreID, &sb.DateSinistre,
			&sb.DateDeclaration, &sb.Description, &sb.MontantDemande, &montantApprouve, &sb.Statut,
			&sb.MotifRejet, &sb.Remarques, &traiteParID, &dateTraitement, &datePaiement,
			&sb.CreatedAt); err != nil {
			return err
		}
		if montantApprouve.Valid {
			sb.MontantApprouve = &montantApprouve.Int64
		}
		if traiteParID.Valid {
			sb.TraiteParID = &traiteParID.Int64
		}
		if dateTraitement.Valid {
			sb.DateTraitement = &dateTraitement.Time
		}
		if datePaiement.Valid {
			sb.DatePaiement = &datePaiement.Time
		}
		backup.Sinistres = append(backup.Sinistres, sb)
	}
	return rows.Err()
}

func (s *BackupService) importMembres(tx database.DBTX, membres []MembreBackup) error {
	log.Printf("Importing %d membres...", len(membres))
	for _, m := range membres {
		query := `INSERT INTO membres (id, nom_complet, telephone_1, telephone_2, email, profession,
			cotisation_annuelle, date_adhesion, statut, password_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, m.ID, m.NomComplet, m.Telephone1, nullIfEmpty(m.Telephone2),
			nullIfEmpty(m.Email), nullIfEmpty(m.Profession), m.CotisationAnnuelle, m.DateAdhesion,
			m.Statut, m.PasswordHash, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import membre %d: %w", m.ID, err)
		}

		for _, role := range m.Roles {
			_, err := tx.Exec("INSERT INTO membre_roles (membre_id, role) VALUES (?, ?)", m.ID, role)
			if err != nil {
				return fmt.Errorf("failed to import role %s for membre %d: %w", role, m.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importTypesSinistres(tx database.DBTX, types []TypeSinistreBackup) error {
	log.Printf("Importing %d types sinistres...", len(types))
	for _, t := range types {
		query := "INSERT INTO types_sinistres (id, nom, montant_couverture, necessite_validation) VALUES (?, ?, ?, ?)"
		_, err := tx.Exec(query, t.ID, t.Nom, t.MontantCouverture, t.NecessiteValidation)
		if err != nil {
			return fmt.Errorf("failed to import type sinistre %d: %w", t.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importCotisations(tx database.DBTX, cotisations []CotisationBackup) error {
	log.Printf("Importing %d cotisations...", len(cotisations))
	for _, c := range cotisations {
		var datePaiement interface{}
		if c.DatePaiement != nil {
			datePaiement = *c.DatePaiement
		}
		query := `INSERT INTO cotisations (id, membre_id, mois, annee, montant, date_echeance,
			date_paiement, mode_paiement, reference_paiement, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, c.ID, c.MembreID, c.Mois, c.Annee, c.Montant, c.DateEcheance,
			datePaiement, nullIfEmpty(c.ModePaiement), nullIfEmpty(c.ReferencePaiement), c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import cotisation %d: %w", c.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSinistres(tx database.DBTX, sinistres []SinistreBackup) error {
	log.Printf("Importing %d sinistres...", len(sinistres))
	for _, sb := range sinistres {
		var montantApprouve, traiteParID, dateTraitement, datePaiement interface{}
		if sb.MontantApprouve != nil {
			montantApprouve = *sb.MontantApprouve
		}
		if sb.TraiteParID != nil {
			traiteParID = *sb.TraiteParID
		}
		if sb.DateTraitement != nil {
			dateTraitement = *sb.DateTraitement
		}
		if sb.DatePaiement != nil {
			datePaiement = *sb.DatePaiement
		}
		query := `INSERT INTO sinistres (id, membre_id, type_sinistre_id, date_sinistre,
			date_declaration, description, montant_demande, montant_approuve, statut, motif_rejet,
			remarques, traite_par_id, date_traitement, date_paiement, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, sb.ID, sb.MembreID, sb.TypeSinistreID, sb.DateSinistre,
			sb.DateDeclaration, sb.Description, sb.MontantDemande, montantApprouve, sb.Statut,
			nullIfEmpty(sb.MotifRejet), nullIfEmpty(sb.Remarques), traiteParID, dateTraitement,
			datePaiement, sb.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import sinistre %d: %w", sb.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
