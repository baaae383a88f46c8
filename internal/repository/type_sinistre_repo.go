package repository

import (
	"database/sql"
	"fmt"

	"lescombis/internal/database"
	"lescombis/internal/models"
)

// TypeSinistreRepository reads the claim-type reference data
type TypeSinistreRepository struct {
	db *database.DB
}

// NewTypeSinistreRepository creates a new claim-type repository
func NewTypeSinistreRepository(db *database.DB) *TypeSinistreRepository {
	return &TypeSinistreRepository{db: db}
}

// GetTypeByID retrieves one claim type
func (r *TypeSinistreRepository) GetTypeByID(id int64) (*models.TypeSinistre, error) {
	query := "SELECT id, nom, montant_couverture, necessite_validation FROM types_sinistres WHERE id = ?"
	t := &models.TypeSinistre{}
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.Nom, &t.MontantCouverture, &t.NecessiteValidation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get type sinistre: %w", err)
	}
	return t, nil
}

// ListTypes retrieves all claim types ordered by name
func (r *TypeSinistreRepository) ListTypes() ([]models.TypeSinistre, error) {
	query := "SELECT id, nom, montant_couverture, necessite_validation FROM types_sinistres ORDER BY nom ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query types sinistres: %w", err)
	}
	defer rows.Close()

	var types []models.TypeSinistre
	for rows.Next() {
		var t models.TypeSinistre
		if err := rows.Scan(&t.ID, &t.Nom, &t.MontantCouverture, &t.NecessiteValidation); err != nil {
			return nil, fmt.Errorf("failed to scan type sinistre: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read types sinistres: %w", err)
	}
	return types, nil
}
