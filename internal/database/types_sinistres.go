package database

import (
	"fmt"
	"log"
)

// defaultTypesSinistres are the claim categories the association covers.
// Coverage amounts are in FCFA.
var defaultTypesSinistres = []struct {
	nom                 string
	montantCouverture   int64
	necessiteValidation bool
}{
	{"Décès d'un membre", 500000, false},
	{"Décès d'un parent", 250000, false},
	{"Mariage", 150000, false},
	{"Naissance", 100000, false},
	{"Maladie / Hospitalisation", 200000, true},
	{"Perte d'emploi", 150000, true},
}

// SeedTypesSinistres inserts the default claim types if the reference table
// is empty. Existing rows are never modified; the table is read-only to the
// rest of the application.
func (db *DB) SeedTypesSinistres() error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM types_sinistres").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check types_sinistres count: %w", err)
	}

	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := "INSERT INTO types_sinistres (nom, montant_couverture, necessite_validation) VALUES (?, ?, ?)"
	rewrittenQuery := db.Dialect.RewriteQuery(insertQuery)

	stmt, err := tx.Prepare(rewrittenQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range defaultTypesSinistres {
		if _, err := stmt.Exec(t.nom, t.montantCouverture, t.necessiteValidation); err != nil {
			return fmt.Errorf("failed to insert type %q: %w", t.nom, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Printf("Seeded %d claim types", len(defaultTypesSinistres))
	return nil
}
